// Package design serves room designs over HTTP: CRUD, membership, the
// stored document, and views derived from it (analysis, PNG preview, STL).
package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/engine"
	"github.com/roomcraft/roomcraft/backend-go/internal/mesh"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/preview"
	"github.com/roomcraft/roomcraft/backend-go/internal/store"
	"github.com/roomcraft/roomcraft/backend-go/internal/typeid"
)

var (
	ErrNotFound       = errors.New("design not found")
	ErrForbidden      = errors.New("forbidden")
	ErrNotMember      = errors.New("not a design member")
	ErrUserNotFound   = errors.New("user not found")
	ErrAlreadyMember  = errors.New("already a member")
	ErrRemoveOwner    = errors.New("cannot remove design owner")
	ErrInvalidRequest = errors.New("invalid request")
)

// Options configure new designs and derived views.
type Options struct {
	Engine engine.Options
	// WallHeight is the room height of designs created without a preset.
	WallHeight  float64
	PreviewSize int
}

type Service struct {
	store store.Store
	opts  engine.Options

	wallHeight  float64
	previewSize int
}

func NewService(st store.Store, opts Options) *Service {
	return &Service{
		store:       st,
		opts:        opts.Engine,
		wallHeight:  opts.WallHeight,
		previewSize: opts.PreviewSize,
	}
}

type Design struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// CreateParams describe a new design. Preset picks room settings; a positive
// Width and Length seed a rectangular room of that size. A preset without
// dimensions seeds a rectangle of the preset's size.
type CreateParams struct {
	Name   string  `json:"name"`
	Preset string  `json:"preset,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Length float64 `json:"length,omitempty"`
}

func (s *Service) newEngine() *engine.Engine {
	return engine.NewEngine(s.opts)
}

func (s *Service) Create(ctx context.Context, ownerID string, p CreateParams) (*Design, error) {
	designID := typeid.NewDesignID()
	doc := document.NewEmptyDesign(designID, p.Name)
	if s.wallHeight > 0 {
		doc.Room.Height = s.wallHeight
		doc.Room = doc.Room.Clamp()
	}

	width, length := p.Width, p.Length
	if p.Preset != "" {
		preset, err := document.LookupPreset(p.Preset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		doc.Room = preset.Settings
		if width <= 0 && length <= 0 {
			width, length = preset.Settings.Width, preset.Settings.Length
		}
	}
	if width > 0 || length > 0 {
		g := plan.NewGraph(plan.WithMinLength(s.opts.MinWallLength))
		if _, err := g.CreateRectangularRoom(width, length); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		doc.Walls = g.Walls()
		doc.Room.Width, doc.Room.Length = width, length
		doc.Room = doc.Room.Clamp()
	}

	dbDesign, err := s.store.CreateDesign(ctx, store.Design{ID: designID, Name: p.Name, OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}
	if err := s.store.AddMember(ctx, designID, ownerID, store.RoleOwner); err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	ts := dbDesign.CreatedAt.UTC().Format(time.RFC3339)
	doc.CreatedAt, doc.UpdatedAt = ts, ts
	if _, err := s.saveSnapshot(ctx, doc); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toDesign(dbDesign), nil
}

func (s *Service) Get(ctx context.Context, designID, userID string) (*Design, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return nil, err
	}
	dbDesign, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get design: %w", err)
	}
	return toDesign(dbDesign), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Design, error) {
	dbDesigns, err := s.store.ListDesignsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	designs := make([]Design, len(dbDesigns))
	for i, d := range dbDesigns {
		designs[i] = *toDesign(d)
	}
	return designs, nil
}

func (s *Service) Delete(ctx context.Context, designID, userID string) error {
	if err := s.checkOwner(ctx, designID, userID); err != nil {
		return err
	}
	return s.store.DeleteDesign(ctx, designID)
}

func (s *Service) InviteByEmail(ctx context.Context, designID, ownerID, inviteeEmail string) error {
	if err := s.checkOwner(ctx, designID, ownerID); err != nil {
		return err
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.store.AddMember(ctx, designID, invitee.ID, store.RoleEditor); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, designID, userID string) ([]Member, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.store.ListMembers(ctx, designID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, designID, ownerID, targetUserID string) error {
	if err := s.checkOwner(ctx, designID, ownerID); err != nil {
		return err
	}
	if targetUserID == ownerID {
		return ErrRemoveOwner
	}
	if err := s.store.RemoveMember(ctx, designID, targetUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotMember
		}
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// Document returns the latest saved document of a design.
func (s *Service) Document(ctx context.Context, designID, userID string) (*document.Design, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return nil, err
	}
	return s.LoadDocument(ctx, designID)
}

// LoadDocument reads the latest snapshot without an access check. The
// collaboration hub uses it after authorizing the connection.
func (s *Service) LoadDocument(ctx context.Context, designID string) (*document.Design, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, designID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	doc, err := document.Parse(snap.Document)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", snap.ID, err)
	}
	doc.ID = designID
	doc.Version = snap.Version
	return doc, nil
}

// SaveDocument validates data as a design document and stores it as the
// next snapshot. Walls shorter than the minimum length are rejected.
func (s *Service) SaveDocument(ctx context.Context, designID, userID string, data []byte) (*document.Design, error) {
	if err := s.checkMembership(ctx, designID, userID); err != nil {
		return nil, err
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, err := doc.Graph(plan.WithMinLength(s.opts.MinWallLength)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	doc.ID = designID
	if err := s.StoreDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// StoreDocument persists doc as a new snapshot and keeps the design name in
// sync with it.
func (s *Service) StoreDocument(ctx context.Context, doc *document.Design) error {
	current, err := s.store.GetDesign(ctx, doc.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get design: %w", err)
	}
	if doc.Name != "" && doc.Name != current.Name {
		if err := s.store.RenameDesign(ctx, doc.ID, doc.Name); err != nil {
			return fmt.Errorf("rename design: %w", err)
		}
	}
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	snap, err := s.saveSnapshot(ctx, doc)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	doc.Version = snap.Version
	return nil
}

func (s *Service) saveSnapshot(ctx context.Context, doc *document.Design) (store.Snapshot, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("marshal document: %w", err)
	}
	return s.store.SaveSnapshot(ctx, typeid.NewSnapshotID(), doc.ID, data)
}

func (s *Service) loadEngine(ctx context.Context, designID, userID string) (*engine.Engine, error) {
	doc, err := s.Document(ctx, designID, userID)
	if err != nil {
		return nil, err
	}
	e := s.newEngine()
	if err := e.LoadDesign(doc); err != nil {
		return nil, fmt.Errorf("load design %s: %w", designID, err)
	}
	return e, nil
}

// Analysis derives closure, boundary and metrics of the stored walls.
func (s *Service) Analysis(ctx context.Context, designID, userID string) (engine.Analysis, error) {
	e, err := s.loadEngine(ctx, designID, userID)
	if err != nil {
		return engine.Analysis{}, err
	}
	return e.Analysis(), nil
}

// Preview renders the stored plan as a PNG of size×size pixels.
func (s *Service) Preview(ctx context.Context, designID, userID string, size int) ([]byte, error) {
	e, err := s.loadEngine(ctx, designID, userID)
	if err != nil {
		return nil, err
	}
	opts := preview.DefaultOptions()
	if s.previewSize > 0 {
		opts.Size = s.previewSize
	}
	if size > 0 {
		opts.Size = size
	}
	opts.GridEnabled = e.Options().GridEnabled
	return preview.RenderGraph(e.Graph(), opts)
}

// Mesh converts the stored plan to 3D. With solid set, the room shell is
// built as a signed distance field and polygonized with cells voxels along
// its longest side; otherwise the wall boxes and floor are returned as is.
func (s *Service) Mesh(ctx context.Context, designID, userID string, solid bool, cells int) (*mesh.Mesh, error) {
	e, err := s.loadEngine(ctx, designID, userID)
	if err != nil {
		return nil, err
	}
	room := e.ProceedTo3D()
	if !solid {
		return room.Combined(), nil
	}
	sdf, err := mesh.Solid(room)
	if err != nil {
		return nil, fmt.Errorf("build solid: %w", err)
	}
	return mesh.SolidMesh(sdf, cells), nil
}

// CheckAccess reports whether userID may open the design.
func (s *Service) CheckAccess(ctx context.Context, designID, userID string) error {
	return s.checkMembership(ctx, designID, userID)
}

func (s *Service) checkMembership(ctx context.Context, designID, userID string) error {
	_, err := s.store.GetMember(ctx, designID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func (s *Service) checkOwner(ctx context.Context, designID, userID string) error {
	dbDesign, err := s.store.GetDesign(ctx, designID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get design: %w", err)
	}
	if dbDesign.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func toDesign(d store.Design) *Design {
	return &Design{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
