package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

var ErrNotifierDisabled = errors.New("notifier is not configured")

// Payload is the body the spreadsheet-script notifier expects.
type Payload struct {
	APIKey           string  `json:"apiKey"`
	ClienteEmail     string  `json:"clienteEmail"`
	ClienteNombre    string  `json:"clienteNombre"`
	ProyectoNombre   string  `json:"proyectoNombre"`
	Mensualidad      float64 `json:"mensualidad"`
	DiasAtraso       int     `json:"diasAtraso"`
	FechaVencimiento string  `json:"fechaVencimiento"`
}

// Notifier is fire-and-forget: any response counts as delivered, only
// network-level failures are errors.
type Notifier struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewNotifier(url, apiKey string) *Notifier {
	return &Notifier{URL: strings.TrimSpace(url), APIKey: apiKey, Timeout: 10 * time.Second}
}

func (n *Notifier) Enabled() bool { return n != nil && n.URL != "" }

func (n *Notifier) Send(p Payload) error {
	if !n.Enabled() {
		return ErrNotifierDisabled
	}
	p.APIKey = n.APIKey

	a := fiber.Post(n.URL)
	a.JSONEncoder(sonic.Marshal)
	a.JSON(p)
	a.Timeout(n.Timeout)
	// the script answers with a redirect we do not need to follow
	_, _, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("post reminder: %w", errors.Join(errs...))
	}
	return nil
}
