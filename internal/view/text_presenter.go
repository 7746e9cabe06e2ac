package view

import (
	"fmt"
	"io"
	"strings"
)

// TextPresenter выводит маршрут в текстовом виде
type TextPresenter struct {
	w io.Writer
}

// NewTextPresenter создает текстовый презентер
func NewTextPresenter(w io.Writer) *TextPresenter {
	return &TextPresenter{w: w}
}

// Render выводит маркеры и оценки участков
func (p *TextPresenter) Render(v RouteView) {
	if v.Empty() {
		fmt.Fprintln(p.w, "No coordinates to draw.")
		return
	}

	for _, m := range v.Markers {
		fmt.Fprintln(p.w, Popup(m))
		fmt.Fprintln(p.w)
	}

	if len(v.Markers) > 1 {
		fmt.Fprintf(p.w, "Total: %.2f km, ~%d min, %.2f L\n", v.TotalDistanceKm, v.TotalTimeMin, v.TotalFuelL)
	}
}

// Notify выводит уведомление
func (p *TextPresenter) Notify(n Notice) {
	prefix := "info"
	if n.Kind == NoticeError {
		prefix = "error"
	}
	fmt.Fprintf(p.w, "[%s] %s\n", prefix, n.Text)
}

// Popup текст всплывающей подсказки маркера
func Popup(m Marker) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Point %d: Lat: %.6f, Lng: %.6f", m.Number, m.Point.Lat, m.Point.Lng)

	if m.IsLast || m.Next == nil {
		b.WriteString("\n  This is the last point of the route.")
		return b.String()
	}

	fmt.Fprintf(&b, "\n  To next point (%d):", m.Next.ToNumber)
	fmt.Fprintf(&b, "\n  Distance: %.2f km", m.Next.DistanceKm)
	fmt.Fprintf(&b, "\n  Approx. time: %d minutes", m.Next.TimeMin)
	fmt.Fprintf(&b, "\n  Fuel: %.2f liters", m.Next.FuelL)
	return b.String()
}
