package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(10, 5)

	s.SetColor(3, 2, '█', ColorViolet)
	cell := s.GetCell(3, 2)
	if cell.Rune != '█' || cell.Color != ColorViolet {
		t.Errorf("GetCell(3, 2) = %+v, expected violet block", cell)
	}

	// Out of bounds writes are ignored and reads return blank cells
	s.SetColor(-1, 0, 'x', ColorRed)
	s.SetColor(10, 0, 'x', ColorRed)
	if got := s.GetCell(-1, 0); got.Rune != ' ' || got.Color != ColorDefault {
		t.Errorf("GetCell(-1, 0) = %+v, expected blank cell", got)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(5, 3)
	s.SetColor(1, 1, '#', ColorRed)
	s.Clear()

	if cell := s.GetCell(1, 1); cell.Rune != ' ' || cell.Color != ColorDefault {
		t.Errorf("Clear() left %+v at (1, 1)", cell)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawTextColor(2, 1, "ping", ColorCyan)

	if got := s.Row(1); got != "  ping    " {
		t.Errorf("Row(1) = %q, expected %q", got, "  ping    ")
	}
	if s.GetCell(2, 1).Color != ColorCyan {
		t.Error("DrawTextColor should color every rune")
	}

	// Clipped at the right edge
	s.DrawText(8, 0, "long")
	if got := s.Row(0); got != "        lo" {
		t.Errorf("Row(0) = %q, expected clipped text", got)
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextCentered(1, "SONAR", ColorDefault)

	if !strings.Contains(s.Row(1), "SONAR") {
		t.Fatalf("DrawTextCentered did not draw text, row = %q", s.Row(1))
	}
	if idx := strings.Index(s.Row(1), "SONAR"); idx != 7 {
		t.Errorf("DrawTextCentered placed text at %d, expected 7", idx)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawBox(NewRect(1, 1, 5, 3), ColorWhite)

	checks := []struct {
		x, y int
		r    rune
	}{
		{1, 1, '┌'},
		{5, 1, '┐'},
		{1, 3, '└'},
		{5, 3, '┘'},
		{3, 1, '─'},
		{1, 2, '│'},
		{3, 2, ' '},
	}
	for _, c := range checks {
		if got := s.Get(c.x, c.y); got != c.r {
			t.Errorf("Get(%d, %d) = %q, expected %q", c.x, c.y, got, c.r)
		}
	}
}

func TestScreenDrawHLine(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawHLine(2, 2, 5, '═', ColorGray)

	for x := 2; x < 7; x++ {
		if s.Get(x, 2) != '═' {
			t.Errorf("DrawHLine: expected '═' at (%d, 2), got %q", x, s.Get(x, 2))
		}
	}
	if s.Get(7, 2) != ' ' {
		t.Error("DrawHLine drew past its length")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.Set(0, 0, 'a')
	s.Set(2, 1, 'b')

	if got := s.String(); got != "a  \n  b" {
		t.Errorf("String() = %q, expected %q", got, "a  \n  b")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 5)
	s.Set(1, 1, 'x')
	s.Resize(20, 8)

	if s.Width() != 20 || s.Height() != 8 {
		t.Errorf("Resize() = %dx%d, expected 20x8", s.Width(), s.Height())
	}
	if s.Get(1, 1) != ' ' {
		t.Error("Resize should start from a blank buffer")
	}
}
