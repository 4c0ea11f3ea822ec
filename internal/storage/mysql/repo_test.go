package mysql

import (
	"strings"
	"testing"
)

// listRow scans an id plus the images and features columns; other columns
// keep their zero values.
type listRow struct {
	id               int64
	images, features []byte
}

func (r listRow) Scan(dest ...any) error {
	*dest[0].(*int64) = r.id
	*dest[13].(*[]byte) = r.images
	*dest[14].(*[]byte) = r.features
	return nil
}

func TestScanProperty_Lists(t *testing.T) {
	p, err := scanProperty(listRow{id: 4, images: []byte(`["a.jpg"]`), features: nil})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(p.Images) != 1 || p.Images[0] != "a.jpg" {
		t.Fatalf("images: %#v", p.Images)
	}
	if p.Features == nil || len(p.Features) != 0 {
		t.Fatalf("NULL column should read as empty, got %#v", p.Features)
	}

	p, err = scanProperty(listRow{id: 5, images: []byte(`null`), features: []byte(`[]`)})
	if err != nil || p.Images == nil || len(p.Images) != 0 {
		t.Fatalf("JSON null should read as empty: %#v, %v", p.Images, err)
	}
}

func TestScanProperty_CorruptListFails(t *testing.T) {
	for name, row := range map[string]listRow{
		"images":   {id: 7, images: []byte(`{"not":"a list"}`), features: []byte(`[]`)},
		"features": {id: 7, images: []byte(`[]`), features: []byte(`["unterminated`)},
	} {
		_, err := scanProperty(row)
		if err == nil {
			t.Fatalf("%s: expected decode error", name)
		}
		if !strings.Contains(err.Error(), "property 7 "+name) {
			t.Fatalf("%s: error should name the row and column: %v", name, err)
		}
	}
}
