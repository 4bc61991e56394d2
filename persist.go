package tack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion tags exported documents so future readers can migrate.
const SchemaVersion = 1

// Document is the opaque, JSON-compatible serialization of a board: the
// entity collection, the viewport, a schema version tag, and a last-modified
// timestamp. Export and import use the identical shape, so a round trip is
// lossless.
type Document struct {
	SchemaVersion int       `json:"schemaVersion"`
	ModifiedAt    time.Time `json:"modifiedAt"`
	Viewport      Viewport  `json:"viewport"`
	Entities      []Entity  `json:"entities"`
}

// Store is the external persistence collaborator. Both operations are
// fallible; the engine reports failures to the caller and never lets them
// corrupt in-memory state.
type Store interface {
	// Save persists a document.
	Save(doc Document) error
	// Load returns the persisted document, or ok=false when nothing has
	// been saved yet.
	Load() (doc Document, ok bool, err error)
}

// --- Board export / import ---

// ExportDocument returns a deep copy of the board state as a Document.
func (b *Board) ExportDocument() Document {
	return b.exportDocument()
}

func (b *Board) exportDocument() Document {
	entities := make([]Entity, 0, len(b.order))
	for _, id := range b.order {
		entities = append(entities, *b.entities[id])
	}
	return Document{
		SchemaVersion: SchemaVersion,
		ModifiedAt:    b.now(),
		Viewport:      b.viewport,
		Entities:      entities,
	}
}

// ImportDocument validates a document and replaces the board state with it.
// The import is all-or-nothing: a bad document leaves the board untouched.
// A successful import records one history snapshot.
func (b *Board) ImportDocument(doc Document) error {
	if err := b.validateDocument(doc); err != nil {
		return err
	}
	b.CancelSession()
	b.importDocument(doc)
	b.record("import")
	return nil
}

// validateDocument checks the structural invariants a document must satisfy
// before it may replace live state.
func (b *Board) validateDocument(doc Document) error {
	if doc.SchemaVersion != SchemaVersion {
		return fmt.Errorf("document version %d: %w", doc.SchemaVersion, ErrSchemaVersion)
	}

	byID := make(map[string]*Entity, len(doc.Entities))
	for i := range doc.Entities {
		e := &doc.Entities[i]
		if _, err := uuid.Parse(e.ID); err != nil {
			return fmt.Errorf("entity id %q: %w", e.ID, err)
		}
		if _, dup := byID[e.ID]; dup {
			return fmt.Errorf("duplicate entity id %q", e.ID)
		}
		if e.Rect.Empty() {
			return fmt.Errorf("entity %q: %w", e.ID, ErrInvalidGeometry)
		}
		byID[e.ID] = e
	}

	for _, e := range byID {
		if e.ContainerID == "" {
			continue
		}
		c, ok := byID[e.ContainerID]
		if !ok {
			return fmt.Errorf("entity %q references container %q: %w", e.ID, e.ContainerID, ErrNotFound)
		}
		if c.Type != EntityContainer {
			return fmt.Errorf("entity %q nested in %q: %w", e.ID, e.ContainerID, ErrNotAContainer)
		}
		// Walk the ancestor chain; revisiting the start id means a cycle.
		seen := 0
		for cid := e.ContainerID; cid != ""; cid = byID[cid].ContainerID {
			if cid == e.ID {
				return fmt.Errorf("entity %q: %w", e.ID, ErrCyclicNesting)
			}
			if _, ok := byID[cid]; !ok {
				break
			}
			if seen++; seen > len(byID) {
				return fmt.Errorf("entity %q: %w", e.ID, ErrCyclicNesting)
			}
		}
	}
	return nil
}

// importDocument replaces the live state. Callers have already validated.
func (b *Board) importDocument(doc Document) {
	b.entities = make(map[string]*Entity, len(doc.Entities))
	b.order = b.order[:0]
	for i := range doc.Entities {
		e := doc.Entities[i] // copy, the document stays detached
		minW, minH := b.cfg.minSize(e.Type)
		if e.Rect.Width < minW {
			e.Rect.Width = minW
		}
		if e.Rect.Height < minH {
			e.Rect.Height = minH
		}
		b.entities[e.ID] = &e
		b.order = append(b.order, e.ID)
	}

	vp := doc.Viewport
	vp.MinZoom = b.cfg.MinZoom
	vp.MaxZoom = b.cfg.MaxZoom
	if vp.Zoom <= 0 {
		vp.Zoom = 1
	}
	b.viewport = vp
}

// SaveNow synchronously persists the board through the configured store.
func (b *Board) SaveNow() error {
	if b.store == nil {
		return ErrNoStore
	}
	if err := b.store.Save(b.exportDocument()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// LoadFrom replaces the board state with the store's persisted document.
// Returns false when the store holds nothing yet.
func (b *Board) LoadFrom() (bool, error) {
	if b.store == nil {
		return false, ErrNoStore
	}
	doc, ok, err := b.store.Load()
	if err != nil {
		return false, fmt.Errorf("load: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := b.ImportDocument(doc); err != nil {
		return false, err
	}
	return true, nil
}

// --- FileStore ---

// FileStore persists documents as an indented JSON file, one board per path.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Save writes the document to the store's path. The write goes through a
// temp file and rename so a crash never leaves a torn document behind.
func (s *FileStore) Save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Load reads the document at the store's path. A missing file is not an
// error; it reports ok=false.
func (s *FileStore) Load() (Document, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("read document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, false, fmt.Errorf("parse document: %w", err)
	}
	return doc, true, nil
}
