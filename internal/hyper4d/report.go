package hyper4d

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

func ftoa(v Real) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// WriteStats prints a session summary followed by one row per layer.
func WriteStats(w io.Writer, hc *HyperComputer) error {
	s := hc.Stats()
	table := tablewriter.NewWriter(w)
	rows := [][]string{
		{"Field", "Value"},
		{"session", s.ID},
		{"frames", strconv.FormatUint(s.FramesRendered, 10)},
		{"passes", strconv.FormatUint(s.Passes, 10)},
		{"blits", strconv.FormatUint(s.Blits, 10)},
		{"breathing frames", strconv.FormatUint(s.BreathFrames, 10)},
		{"skipped signals", strconv.FormatUint(s.Stack.Skipped, 10)},
		{"degraded", strconv.FormatBool(s.Degraded)},
		{"coherence", ftoa(s.Stack.Coherence)},
		{"focus", s.Stack.Focus.String()},
		{"grounded/folded/deployed", fmt.Sprintf("%d/%d/%d", s.Stack.States[Grounded], s.Stack.States[Folded], s.Stack.States[Deployed])},
		{"avg scale", ftoa(s.Stack.AvgScale)},
		{"avg stress", ftoa(s.Stack.AvgStress)},
		{"avg z offset", ftoa(s.Stack.AvgZOffset)},
		{"last energy", ftoa(s.Energy)},
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	return WriteLayers(w, hc.Hexastack())
}

// WriteLayers prints the per-layer state.
func WriteLayers(w io.Writer, h *Hexastack) error {
	table := tablewriter.NewWriter(w)
	if err := table.Append([]string{"Layer", "Role", "State", "Scale", "Stress", "Z offset", "Plane"}); err != nil {
		return err
	}
	for _, l := range h.Layers() {
		role := "structure"
		if l.ID >= NumStructure {
			role = "pilot"
		}
		row := []string{
			strconv.Itoa(l.ID),
			role,
			l.State().String(),
			ftoa(l.CurrentScale()),
			ftoa(l.Stress()),
			ftoa(l.ZOffset()),
			l.PreferredPlane().String(),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// WritePolytopeReport prints the geometry the constellation is built from:
// the 24-cell with its trilatic subsets and the five-layer 600-cell tiling.
func WritePolytopeReport(w io.Writer) error {
	verts := Cell24Vertices(1)
	table := tablewriter.NewWriter(w)
	if err := table.Append([]string{"Index", "Subset", "X", "Y", "Z", "W"}); err != nil {
		return err
	}
	for i, v := range verts {
		row := []string{strconv.Itoa(i), TrilaticOf(i).String(), ftoa(v.X), ftoa(v.Y), ftoa(v.Z), ftoa(v.W)}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	cell600 := Cell600Vertices()
	edge := Cell600EdgeLength()
	summary := tablewriter.NewWriter(w)
	rows := [][]string{
		{"Property", "Value"},
		{"24-cell vertices", strconv.Itoa(CellVerts)},
		{"24-cell edges", strconv.Itoa(len(Cell24Edges()))},
		{"600-cell vertices", strconv.Itoa(len(cell600))},
		{"600-cell edge length", ftoa(edge)},
		{"600-cell neighbours of vertex 0", strconv.Itoa(neighbours(cell600, 0, edge))},
	}
	for _, r := range rows {
		if err := summary.Append(r); err != nil {
			return err
		}
	}
	return summary.Render()
}

// neighbours counts the points at distance d from pts[i].
func neighbours(pts []Point4, i int, d Real) int {
	n := 0
	for j, p := range pts {
		if j != i && math.Abs(p.Dist(pts[i])-d) < 1e-9 {
			n++
		}
	}
	return n
}
