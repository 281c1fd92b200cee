package constants

// Sale types stored in venta.tipo_de_venta
const (
	SaleTypeOneTime      = "venta_total"
	SaleTypeSubscription = "suscripcion"
)

// Contract states stored in contratos.estado
const (
	ContractActive    = "activo"
	ContractCancelled = "cancelado"
)

// Payment types stored in pagos.tipo
const (
	PaymentContract     = "contrato"
	PaymentSubscription = "suscripcion"
	PaymentOneOff       = "unico"
)

// Progress record states stored in avances.estado
const (
	ProgressCompleted  = "completado"
	ProgressInProgress = "en_progreso"
)

// Tables that carry a signed contract document
const (
	TableSales         = "venta"
	TableContracts     = "contratos"
	TableSubscriptions = "suscripciones"
)

var (
	SaleTypes     = []string{SaleTypeOneTime, SaleTypeSubscription}
	PaymentTypes  = []string{PaymentContract, PaymentSubscription, PaymentOneOff}
	DocumentTable = []string{TableSales, TableContracts, TableSubscriptions}
)

func IsDocumentTable(t string) bool {
	for _, x := range DocumentTable {
		if x == t {
			return true
		}
	}
	return false
}
