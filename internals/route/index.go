package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	gateRoute "admon_backend/internals/features/auth/gate/route"
	gateService "admon_backend/internals/features/auth/gate/service"
	clientRoute "admon_backend/internals/features/clients/clients/route"
	projectRoute "admon_backend/internals/features/clients/projects/route"
	docRoute "admon_backend/internals/features/documents/contract_docs/route"
	docService "admon_backend/internals/features/documents/contract_docs/service"
	balanceRoute "admon_backend/internals/features/finance/balances/route"
	paymentRoute "admon_backend/internals/features/finance/payments/route"
	statsRoute "admon_backend/internals/features/finance/statistics/route"
	reminderRoute "admon_backend/internals/features/notifications/reminders/route"
	reminderService "admon_backend/internals/features/notifications/reminders/service"
	avanceRoute "admon_backend/internals/features/progress/avances/route"
	reportRoute "admon_backend/internals/features/progress/reports/route"
	contractRoute "admon_backend/internals/features/sales/contracts/route"
	subscriptionRoute "admon_backend/internals/features/sales/subscriptions/route"
	saleRoute "admon_backend/internals/features/sales/ventas/route"
	"admon_backend/internals/middlewares"
	authMw "admon_backend/internals/middlewares/auth"
)

// Deps carries the services main builds once at startup.
// Docs is nil when the blob store is not configured.
type Deps struct {
	Gate      *gateService.Gate
	Docs      *docService.Service
	Reminders *reminderService.Service
	Loc       *time.Location
	DevProxy  middlewares.DevProxyConfig
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	BaseRoutes(app, db)

	if middlewares.MountDevProxy(app, deps.DevProxy) {
		log.Println("[INFO] Dev proxy mounted")
	}

	api := app.Group("/api", middlewares.GlobalRateLimiter())

	// ===================== AUTH GATE (public) =====================
	log.Println("[INFO] Setting up auth gate routes...")
	gateRoute.GateRoutes(api, deps.Gate)

	// everything below needs a live session
	api.Use(authMw.RequireSession(deps.Gate))

	// ===================== CLIENTS =====================
	log.Println("[INFO] Mounting client routes...")
	clientRoute.ClientRoutes(api, db)
	projectRoute.ProjectRoutes(api, db)

	// ===================== SALES =====================
	log.Println("[INFO] Mounting sales routes...")
	saleRoute.SaleRoutes(api, db)
	contractRoute.ContractRoutes(api, db)
	subscriptionRoute.SubscriptionRoutes(api, db)

	// ===================== FINANCE =====================
	log.Println("[INFO] Mounting finance routes...")
	paymentRoute.PaymentRoutes(api, db)
	balanceRoute.BalanceRoutes(api, db, deps.Loc)
	statsRoute.StatisticsRoutes(api, db, deps.Loc)
	reminderRoute.ReminderRoutes(api, deps.Reminders)

	// ===================== PROGRESS =====================
	log.Println("[INFO] Mounting progress routes...")
	avanceRoute.AvanceRoutes(api, db)
	reportRoute.ReportRoutes(api, db)

	// ===================== DOCUMENTS =====================
	if deps.Docs != nil {
		log.Println("[INFO] Mounting contract document routes...")
		docRoute.ContractDocRoutes(api, deps.Docs)
	} else {
		log.Println("[WARN] Blob store not configured, contract documents answer 503")
		api.All("/documentos/*", func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusServiceUnavailable, "document storage is not configured")
		})
	}
}
