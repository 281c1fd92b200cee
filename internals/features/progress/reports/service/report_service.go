package service

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"
	"time"

	"admon_backend/internals/constants"
	avanceModel "admon_backend/internals/features/progress/avances/model"
)

type Layout string

const (
	LayoutDesktop Layout = "desktop" // A4 landscape, ring + bar chart
	LayoutMobile  Layout = "mobile"  // A4 portrait, linear bar + stats box
)

// RingRadius is the radius of the desktop progress ring, in SVG units.
const RingRadius = 50.0

const displayDate = "02/01/2006"

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(template.New("reports").ParseFS(templateFS, "templates/*.gohtml"))

// ParseLayout accepts an empty value as desktop.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutDesktop:
		return LayoutDesktop, nil
	case LayoutMobile:
		return LayoutMobile, nil
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

type FeatureLine struct {
	Number      int
	Name        string
	Description string
	CompletedAt string
}

// Report is a progress record flattened for printing; dates are already
// formatted in the business zone.
type Report struct {
	ProjectName string
	ClientName  string
	Description string
	CreatedAt   string
	UpdatedAt   string
	GeneratedAt string

	Percentage float64
	Total      int
	Completed  int
	Done       bool

	CompletedFeatures []FeatureLine
	PendingFeatures   []FeatureLine

	AutoPrint bool
}

// Build splits the features into completed and pending, keeping their order.
func Build(av *avanceModel.AvanceModel, now time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}
	r := Report{
		ProjectName: av.AvanceProjectName,
		ClientName:  av.AvanceClientName,
		CreatedAt:   av.AvanceCreatedAt.In(loc).Format(displayDate),
		UpdatedAt:   av.AvanceUpdatedAt.In(loc).Format(displayDate + " 15:04"),
		GeneratedAt: now.In(loc).Format(displayDate + " 15:04"),
		Percentage:  av.AvancePercentage,
		Total:       av.AvanceTotal,
		Completed:   av.AvanceCompleted,
		Done:        av.AvanceStatus == constants.ProgressCompleted,
		AutoPrint:   true,
	}
	if av.AvanceDescription != nil {
		r.Description = strings.TrimSpace(*av.AvanceDescription)
	}

	for _, f := range av.Features {
		line := FeatureLine{Name: f.FeatureName}
		if f.FeatureDescription != nil {
			line.Description = strings.TrimSpace(*f.FeatureDescription)
		}
		if f.FeatureCompleted {
			line.Number = len(r.CompletedFeatures) + 1
			if f.FeatureCompletedAt != nil {
				line.CompletedAt = f.FeatureCompletedAt.In(loc).Format(displayDate)
			}
			r.CompletedFeatures = append(r.CompletedFeatures, line)
			continue
		}
		line.Number = len(r.PendingFeatures) + 1
		r.PendingFeatures = append(r.PendingFeatures, line)
	}
	return r
}

func Circumference() float64 { return 2 * math.Pi * RingRadius }

// RingOffset is the stroke-dashoffset that leaves pct percent of the ring drawn.
func RingOffset(pct float64) float64 {
	c := Circumference()
	return c - pct/100*c
}

// BarHeight maps count out of total to 0..100 px.
func BarHeight(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

type view struct {
	Report
	Circumference string
	Offset        string
	Width         string
	Rounded       string
	BarCompleted  string
	BarPending    string
	BarTotal      string
}

func newView(r Report) view {
	pct := math.Max(0, math.Min(100, r.Percentage))
	pending := len(r.PendingFeatures)
	return view{
		Report:        r,
		Circumference: num(Circumference()),
		Offset:        num(RingOffset(pct)),
		Width:         num(pct),
		Rounded:       fmt.Sprintf("%.0f", pct),
		BarCompleted:  num(BarHeight(len(r.CompletedFeatures), r.Total)),
		BarPending:    num(BarHeight(pending, r.Total)),
		BarTotal:      num(BarHeight(r.Total, r.Total)),
	}
}

func num(f float64) string { return fmt.Sprintf("%.2f", f) }

// Render writes a complete, self-contained HTML document for r.
func Render(w io.Writer, layout Layout, r Report) error {
	switch layout {
	case LayoutDesktop, LayoutMobile:
	default:
		return fmt.Errorf("unknown layout %q", layout)
	}
	return templates.ExecuteTemplate(w, string(layout), newView(r))
}
