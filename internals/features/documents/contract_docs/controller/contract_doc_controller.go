package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"admon_backend/internals/constants"
	"admon_backend/internals/features/documents/contract_docs/service"
	helper "admon_backend/internals/helpers"
	ossHelper "admon_backend/internals/helpers/oss"
)

type ContractDocController struct {
	Svc *service.Service
}

func NewContractDocController(svc *service.Service) *ContractDocController {
	return &ContractDocController{Svc: svc}
}

func docError(err error) error {
	switch {
	case errors.Is(err, service.ErrUnsupportedTable):
		return fiber.NewError(fiber.StatusBadRequest, "tabla must be venta, contratos or suscripciones")
	case errors.Is(err, service.ErrTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrNotPDF):
		return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrRecordNotFound), errors.Is(err, service.ErrNoDocument):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyAttached):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBlobStore):
		return fiber.NewError(fiber.StatusBadGateway, "document storage is unavailable")
	default:
		log.Printf("[DOCS] %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not process document")
	}
}

/* ===================== UPLOAD ===================== */
// POST /api/documentos/:tabla/:id   (multipart: file, cliente?, proyecto?)
func (h *ContractDocController) Upload(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	fh, err := ossHelper.GetFormFile(c, "file")
	if err != nil {
		return err
	}

	in := service.Attachment{
		Table:       c.Params("tabla"),
		RecordID:    id,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
	}
	if in.ClientID, err = optionalUUID(c.FormValue("cliente"), "cliente"); err != nil {
		return err
	}
	if in.ProjectID, err = optionalUUID(c.FormValue("proyecto"), "proyecto"); err != nil {
		return err
	}

	// size is checked on the header first so oversized bodies are never read
	if fh.Size > constants.MaxContractSize {
		return docError(service.ErrTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read file")
	}
	defer f.Close()
	in.Body = f

	res, err := h.Svc.Attach(c.UserContext(), in)
	if err != nil {
		return docError(err)
	}
	return helper.JsonCreated(c, "contract document attached", res)
}

/* ===================== VIEW ===================== */
// GET /api/documentos/:tabla/:id/ver
func (h *ContractDocController) View(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	u, err := h.Svc.SignedURL(c.UserContext(), c.Params("tabla"), id)
	if err != nil {
		return docError(err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"signed_url": u,
		"expires_in": int(service.SignedURLTTL.Seconds()),
	})
}

func optionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" is not a valid UUID")
	}
	return &id, nil
}
