package media

import "testing"

func TestLoadAllSprites(t *testing.T) {
	sprites := map[Type][]string{
		TypeEye:   {"open", "closed", "happy"},
		TypeMouth: {"smile", "flat", "open"},
		TypeIcon:  {"alert", "heart"},
	}
	for typ, names := range sprites {
		w, h := typ.Size()
		for _, name := range names {
			img, err := LoadImage(typ, name)
			if err != nil {
				t.Fatalf("LoadImage(%s, %s): %v", typ, name, err)
			}
			b := img.Bounds()
			if b.Dx() != int(w) || b.Dy() != int(h) {
				t.Errorf("LoadImage(%s, %s): got %dx%d, want %dx%d", typ, name, b.Dx(), b.Dy(), w, h)
			}
		}
	}
}

func TestLoadUnknownName(t *testing.T) {
	if _, err := LoadImage(TypeEye, "nope"); err == nil {
		t.Error("expected error for missing sprite")
	}
}

func TestLoadUnknownType(t *testing.T) {
	if _, err := LoadImage(Type("bogus"), "open"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestSizes(t *testing.T) {
	for _, tc := range []struct {
		typ  Type
		w, h int16
	}{
		{TypeEye, 16, 16},
		{TypeMouth, 24, 8},
		{TypeIcon, 16, 16},
		{Type("bogus"), 0, 0},
	} {
		w, h := tc.typ.Size()
		if w != tc.w || h != tc.h {
			t.Errorf("%s.Size() = %dx%d, want %dx%d", tc.typ, w, h, tc.w, tc.h)
		}
	}
}
