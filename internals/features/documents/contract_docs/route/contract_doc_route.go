package route

import (
	"github.com/gofiber/fiber/v2"

	docCtl "admon_backend/internals/features/documents/contract_docs/controller"
	"admon_backend/internals/features/documents/contract_docs/service"
)

func ContractDocRoutes(r fiber.Router, svc *service.Service) {
	ctl := docCtl.NewContractDocController(svc)

	g := r.Group("/documentos")
	g.Post("/:tabla/:id", ctl.Upload) // one-time, 10 MiB PDF
	g.Get("/:tabla/:id/ver", ctl.View)
}
