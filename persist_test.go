package tack

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

// --- FileStore ---

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards", "demo.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	b := newTestBoard()
	b.CreateWidget(Vec2{X: 100, Y: 100})
	c := b.CreateContainer(Vec2{X: 600, Y: 100})
	if _, err := b.CreateWidgetIn(c.ID, Vec2{X: 50, Y: 30}); err != nil {
		t.Fatalf("CreateWidgetIn: %v", err)
	}
	b.SetStore(store)
	if err := b.SaveNow(); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}

	loaded := newTestBoard()
	loaded.SetStore(store)
	ok, err := loaded.LoadFrom()
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !ok {
		t.Fatal("LoadFrom found nothing after a save")
	}

	if loaded.Len() != b.Len() {
		t.Fatalf("loaded %d entities, want %d", loaded.Len(), b.Len())
	}
	for _, want := range b.Entities() {
		got, ok := loaded.Entity(want.ID)
		if !ok {
			t.Fatalf("entity %q missing after round trip", want.ID)
		}
		if got.Rect != want.Rect || got.Type != want.Type || got.ContainerID != want.ContainerID {
			t.Errorf("entity %q = %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "never-saved.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing file errored: %v", err)
	}
	if ok {
		t.Error("Load of missing file reported ok")
	}
}

func TestSaveNowWithoutStore(t *testing.T) {
	b := newTestBoard()
	if err := b.SaveNow(); !errors.Is(err, ErrNoStore) {
		t.Errorf("SaveNow without store: err = %v, want ErrNoStore", err)
	}
	if _, err := b.LoadFrom(); !errors.Is(err, ErrNoStore) {
		t.Errorf("LoadFrom without store: err = %v, want ErrNoStore", err)
	}
}

// --- Export / import ---

func TestExportImportLossless(t *testing.T) {
	b := newTestBoard()
	b.CreateWidget(Vec2{X: 100, Y: 100})
	c := b.CreateContainer(Vec2{X: 600, Y: 100})
	b.CreateWidgetIn(c.ID, Vec2{X: 50, Y: 30})
	b.Pan(Vec2{X: 40, Y: -20})

	doc := b.ExportDocument()
	if doc.SchemaVersion != SchemaVersion {
		t.Errorf("exported version %d, want %d", doc.SchemaVersion, SchemaVersion)
	}

	fresh := newTestBoard()
	if err := fresh.ImportDocument(doc); err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if fresh.Len() != b.Len() {
		t.Fatalf("imported %d entities, want %d", fresh.Len(), b.Len())
	}
	for i, want := range b.Entities() {
		got := fresh.Entities()[i]
		if got.ID != want.ID || got.Rect != want.Rect || got.ContainerID != want.ContainerID {
			t.Errorf("entity %d = %+v, want %+v (paint order must survive)", i, got, want)
		}
	}
	if vp := fresh.Viewport(); vp.OffsetX != 40 || vp.OffsetY != -20 {
		t.Errorf("viewport offset (%v, %v) after import, want (40, -20)", vp.OffsetX, vp.OffsetY)
	}
}

func TestImportClampsUndersizedRects(t *testing.T) {
	b := newTestBoard()
	doc := Document{
		SchemaVersion: SchemaVersion,
		Entities: []Entity{{
			ID:   uuid.New().String(),
			Type: EntityWidget,
			Rect: Rect{0, 0, 10, 10},
		}},
	}
	if err := b.ImportDocument(doc); err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	got := b.Entities()[0]
	if got.Rect.Width != 120 || got.Rect.Height != 80 {
		t.Errorf("imported rect %v, want size clamped to widget minimum", got.Rect)
	}
}

func TestImportValidation(t *testing.T) {
	widgetID := uuid.New().String()
	containerID := uuid.New().String()
	otherID := uuid.New().String()

	valid := func() Document {
		return Document{
			SchemaVersion: SchemaVersion,
			ModifiedAt:    time.Now(),
			Entities: []Entity{
				{ID: containerID, Type: EntityContainer, Rect: Rect{0, 0, 400, 300}},
				{ID: widgetID, Type: EntityWidget, Rect: Rect{10, 10, 200, 150}, ContainerID: containerID},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr error
	}{
		{
			"wrong schema version",
			func(d *Document) { d.SchemaVersion = 99 },
			ErrSchemaVersion,
		},
		{
			"empty rect",
			func(d *Document) { d.Entities[1].Rect = Rect{} },
			ErrInvalidGeometry,
		},
		{
			"dangling container reference",
			func(d *Document) { d.Entities[1].ContainerID = otherID },
			ErrNotFound,
		},
		{
			"nested in a widget",
			func(d *Document) {
				d.Entities[0].Type = EntityWidget
			},
			ErrNotAContainer,
		},
		{
			"containment cycle",
			func(d *Document) {
				d.Entities[1].Type = EntityContainer
				d.Entities[0].ContainerID = widgetID
			},
			ErrCyclicNesting,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard()
			survivor := b.CreateWidget(Vec2{X: 0, Y: 0})

			doc := valid()
			tt.mutate(&doc)
			err := b.ImportDocument(doc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			// A rejected import must leave the board untouched.
			if b.Len() != 1 {
				t.Fatalf("board has %d entities after rejected import, want 1", b.Len())
			}
			if _, ok := b.Entity(survivor.ID); !ok {
				t.Error("pre-import entity lost after rejected import")
			}
		})
	}
}

func TestImportRejectsBadIDs(t *testing.T) {
	b := newTestBoard()

	doc := Document{
		SchemaVersion: SchemaVersion,
		Entities:      []Entity{{ID: "not-a-uuid", Type: EntityWidget, Rect: Rect{0, 0, 200, 150}}},
	}
	if err := b.ImportDocument(doc); err == nil {
		t.Error("malformed id accepted")
	}

	id := uuid.New().String()
	doc = Document{
		SchemaVersion: SchemaVersion,
		Entities: []Entity{
			{ID: id, Type: EntityWidget, Rect: Rect{0, 0, 200, 150}},
			{ID: id, Type: EntityWidget, Rect: Rect{400, 0, 200, 150}},
		},
	}
	if err := b.ImportDocument(doc); err == nil {
		t.Error("duplicate id accepted")
	}
}

func TestImportRecordsOneSnapshot(t *testing.T) {
	b := newTestBoard()
	doc := Document{SchemaVersion: SchemaVersion}
	_, before := b.History().Cursor()
	if err := b.ImportDocument(doc); err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if _, after := b.History().Cursor(); after != before+1 {
		t.Errorf("import recorded %d snapshots, want 1", after-before)
	}
}
