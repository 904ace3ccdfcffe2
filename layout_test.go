package scope

import (
	"errors"
	"slices"
	"testing"
)

func TestComputeGrid(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		cfg      LayoutConfig
		want     Grid
	}{
		{"rows 3 of 7", 7, LayoutConfig{Rows: 3}, Grid{Rows: 3, Cols: 3}},
		{"cols 2 of 5", 5, LayoutConfig{Cols: 2}, Grid{Rows: 3, Cols: 2}},
		{"default single column", 4, LayoutConfig{}, Grid{Rows: 4, Cols: 1}},
		{"exact fit", 6, LayoutConfig{Rows: 2}, Grid{Rows: 2, Cols: 3}},
		{"more rows than channels", 2, LayoutConfig{Rows: 3}, Grid{Rows: 3, Cols: 1}},
		{"single row", 3, LayoutConfig{Rows: 1, Orientation: Vertical}, Grid{Rows: 1, Cols: 3}},
		{"zero channels", 0, LayoutConfig{}, Grid{Rows: 0, Cols: 1}},
		{"zero channels with rows", 0, LayoutConfig{Rows: 2}, Grid{Rows: 2, Cols: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeGrid(tt.channels, tt.cfg)
			if err != nil {
				t.Fatalf("ComputeGrid() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ComputeGrid(%d, %+v) = %+v, want %+v", tt.channels, tt.cfg, got, tt.want)
			}
		})
	}
}

func TestComputeGridInvalid(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		cfg      LayoutConfig
	}{
		{"both axes", 4, LayoutConfig{Rows: 2, Cols: 2}},
		{"negative rows", 4, LayoutConfig{Rows: -1}},
		{"negative cols", 4, LayoutConfig{Cols: -3}},
		{"bad orientation", 4, LayoutConfig{Orientation: Orientation(7)}},
		{"negative channels", -1, LayoutConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeGrid(tt.channels, tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ComputeGrid() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestGridCoversChannels(t *testing.T) {
	for n := 0; n <= 24; n++ {
		for axis := 1; axis <= 6; axis++ {
			for _, cfg := range []LayoutConfig{
				{Rows: axis},
				{Cols: axis},
				{Rows: axis, Orientation: Vertical},
				{Cols: axis, Orientation: Vertical},
			} {
				l, err := NewLayout(n, cfg)
				if err != nil {
					t.Fatalf("NewLayout(%d, %+v) error = %v", n, cfg, err)
				}
				if l.Cells() < n {
					t.Errorf("NewLayout(%d, %+v) grid %+v has %d cells", n, cfg, l.Grid, l.Cells())
				}
				got := Arrange(l, func(row, col int) int { return row*l.Cols + col })
				if len(got) != n {
					t.Errorf("Arrange(%d, %+v) returned %d regions", n, cfg, len(got))
				}
				seen := make(map[int]bool)
				for _, cell := range got {
					if seen[cell] {
						t.Errorf("Arrange(%d, %+v) assigned cell %d twice", n, cfg, cell)
					}
					seen[cell] = true
				}
			}
		}
	}
}

type cell struct{ row, col int }

func TestArrangeHorizontal(t *testing.T) {
	l := Layout{Grid: Grid{Rows: 2, Cols: 3}, Orientation: Horizontal, Channels: 5}

	var calls []cell
	got := Arrange(l, func(row, col int) cell {
		calls = append(calls, cell{row, col})
		return cell{row, col}
	})

	wantCalls := []cell{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if !slices.Equal(calls, wantCalls) {
		t.Errorf("factory calls = %v, want %v", calls, wantCalls)
	}
	want := []cell{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}}
	if !slices.Equal(got, want) {
		t.Errorf("Arrange() = %v, want %v", got, want)
	}
}

func TestArrangeVertical(t *testing.T) {
	l, err := NewLayout(5, LayoutConfig{Rows: 2, Orientation: Vertical})
	if err != nil {
		t.Fatal(err)
	}
	if l.Grid != (Grid{Rows: 2, Cols: 3}) {
		t.Fatalf("grid = %+v, want 2x3", l.Grid)
	}

	calls := 0
	got := Arrange(l, func(row, col int) cell {
		calls++
		return cell{row, col}
	})
	if calls != 6 {
		t.Errorf("factory called %d times, want 6", calls)
	}
	want := []cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}
	if !slices.Equal(got, want) {
		t.Errorf("Arrange() = %v, want %v", got, want)
	}

	for ch, c := range want {
		row, col := l.Cell(ch)
		if row != c.row || col != c.col {
			t.Errorf("Cell(%d) = (%d, %d), want (%d, %d)", ch, row, col, c.row, c.col)
		}
	}
}

func TestArrangeOrientationOnlyPermutes(t *testing.T) {
	h, _ := NewLayout(5, LayoutConfig{Cols: 3})
	v, _ := NewLayout(5, LayoutConfig{Cols: 3, Orientation: Vertical})
	if h.Grid != v.Grid {
		t.Fatalf("grids differ: %+v vs %+v", h.Grid, v.Grid)
	}

	id := func(row, col int) int { return row*h.Cols + col }
	hg, vg := Arrange(h, id), Arrange(v, id)
	if slices.Equal(hg, vg) {
		t.Errorf("horizontal and vertical assignments are equal: %v", hg)
	}
}

func TestArrangeZeroChannels(t *testing.T) {
	l, err := NewLayout(0, LayoutConfig{Rows: 2})
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	got := Arrange(l, func(row, col int) int { calls++; return 0 })
	if len(got) != 0 || calls != 0 {
		t.Errorf("Arrange() = %v with %d factory calls, want empty", got, calls)
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"h", Horizontal, false},
		{"horizontal", Horizontal, false},
		{" V ", Vertical, false},
		{"vertical", Vertical, false},
		{"diagonal", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrientation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseOrientation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrientationText(t *testing.T) {
	var o Orientation
	if err := o.UnmarshalText([]byte("v")); err != nil {
		t.Fatal(err)
	}
	b, err := o.MarshalText()
	if err != nil || string(b) != "v" {
		t.Errorf("MarshalText() = %q, %v, want \"v\"", b, err)
	}
	if _, err := Orientation(9).MarshalText(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("MarshalText(9) error = %v, want ErrInvalidConfig", err)
	}
}

func TestScreenEdges(t *testing.T) {
	g := Grid{Rows: 2, Cols: 3}
	tests := []struct {
		row, col int
		want     Edges
	}{
		{0, 0, EdgeTop | EdgeLeft},
		{0, 2, EdgeTop | EdgeRight},
		{1, 1, EdgeBottom},
		{1, 2, EdgeBottom | EdgeRight},
	}
	for _, tt := range tests {
		if got := g.ScreenEdges(tt.row, tt.col); got != tt.want {
			t.Errorf("ScreenEdges(%d, %d) = %04b, want %04b", tt.row, tt.col, got, tt.want)
		}
	}
}

func BenchmarkArrange(b *testing.B) {
	l, _ := NewLayout(64, LayoutConfig{Rows: 8, Orientation: Vertical})
	b.ReportAllocs()
	for b.Loop() {
		_ = Arrange(l, func(row, col int) int { return row + col })
	}
}
