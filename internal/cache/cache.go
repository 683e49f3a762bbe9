// Package cache keeps a compressed on-disk snapshot of the menu catalog so
// the home and menu views can paint instantly on startup while the live fetch
// runs. The snapshot is a convenience mirror: stale or unreadable files are
// discarded silently and the server copy always wins.
package cache

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
)

// Snapshot is the cached slice of the catalog.
type Snapshot struct {
	Foods      []restoapi.Food
	Categories []restoapi.Category
	SavedAt    time.Time
}

// Catalog persists snapshots to one gzip-compressed JSON file.
type Catalog struct {
	path   string
	maxAge time.Duration
}

// New creates a Catalog stored at path. Snapshots older than maxAge are
// treated as missing.
func New(path string, maxAge time.Duration) *Catalog {
	return &Catalog{path: path, maxAge: maxAge}
}

// Save writes the snapshot, replacing any previous one. The write goes to a
// temp file first so readers never see a torn snapshot.
func (c *Catalog) Save(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), "catalog-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	gz := pgzip.NewWriter(tmp)
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	if _, err := gz.Write(encodeSnapshot(snap)); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "flush snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close snapshot")
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}

// Load reads the snapshot. A missing, expired or corrupt file returns
// (Snapshot{}, false, nil); only unexpected I/O failures surface as errors.
func (c *Catalog) Load() (Snapshot, bool, error) {
	f, err := os.Open(c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Snapshot{}, false, nil
	case err != nil:
		return Snapshot{}, false, errors.Wrap(err, "open snapshot")
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return Snapshot{}, false, nil
	}
	defer func() { _ = gz.Close() }()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return Snapshot{}, false, nil
	}

	snap, err := decodeSnapshot(raw)
	if err != nil {
		return Snapshot{}, false, nil
	}
	if c.maxAge > 0 && time.Since(snap.SavedAt) > c.maxAge {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

func encodeSnapshot(snap Snapshot) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("saved_at")
	e.Str(snap.SavedAt.UTC().Format(time.RFC3339))

	e.FieldStart("foods")
	e.ArrStart()
	for _, f := range snap.Foods {
		encodeFood(&e, f)
	}
	e.ArrEnd()

	e.FieldStart("categories")
	e.ArrStart()
	for _, cat := range snap.Categories {
		e.ObjStart()
		e.FieldStart("category_id")
		e.Int64(cat.ID)
		e.FieldStart("name")
		e.Str(cat.Name)
		e.FieldStart("image_url")
		e.Str(cat.ImageURL)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}

// encodeFood writes a food using the backend's own field names so the
// restoapi decoders can read it back.
func encodeFood(e *jx.Encoder, f restoapi.Food) {
	e.ObjStart()
	e.FieldStart("food_id")
	e.Int64(f.ID)
	e.FieldStart("food_name")
	e.Str(f.Name)
	e.FieldStart("description")
	e.Str(f.Description)
	e.FieldStart("price")
	e.Str(f.Price.Display)
	if f.PriceAfterDiscounts != nil {
		e.FieldStart("price_after_discounts")
		e.Str(f.PriceAfterDiscounts.Display)
	}
	e.FieldStart("average_rating")
	e.Float64(f.AverageRating)
	e.FieldStart("image_url")
	e.Str(f.ImageURL)
	if len(f.Discounts) > 0 {
		e.FieldStart("discounts")
		e.ArrStart()
		for _, d := range f.Discounts {
			e.ObjStart()
			e.FieldStart("discount_value")
			e.Float64(d.Value)
			e.ObjEnd()
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

func decodeSnapshot(raw []byte) (Snapshot, error) {
	var snap Snapshot
	d := jx.DecodeBytes(raw)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "saved_at":
			s, err := d.Str()
			if err != nil {
				return err
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return err
			}
			snap.SavedAt = t
			return nil
		case "foods":
			return d.Arr(func(d *jx.Decoder) error {
				f, err := restoapi.DecodeFood(d)
				if err != nil {
					return err
				}
				snap.Foods = append(snap.Foods, f)
				return nil
			})
		case "categories":
			return d.Arr(func(d *jx.Decoder) error {
				c, err := restoapi.DecodeCategory(d)
				if err != nil {
					return err
				}
				snap.Categories = append(snap.Categories, c)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return snap, err
}
