// Package project manages project records, membership, and snapshot access
// on top of the Postgres query layer.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/montagehq/montage/backend-go/internal/db/dbgen"
	"github.com/montagehq/montage/backend-go/internal/document"
	"github.com/montagehq/montage/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a project member")
)

type Service struct {
	queries *dbgen.Queries
}

func NewService(queries *dbgen.Queries) *Service {
	return &Service{queries: queries}
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Create inserts a project owned by ownerID, enrolls the owner as a member,
// and seeds version 1 of its composition so the editor always has a document
// to sync.
func (s *Service) Create(ctx context.Context, name, ownerID string) (*Project, error) {
	projectID := typeid.NewProjectID()

	row, err := s.queries.CreateProject(ctx, dbgen.CreateProjectParams{
		ID:      projectID,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := s.queries.AddProjectMember(ctx, dbgen.AddProjectMemberParams{
		ProjectID: projectID,
		UserID:    ownerID,
		Role:      dbgen.ProjectRoleOwner,
	}); err != nil {
		return nil, fmt.Errorf("enroll owner: %w", err)
	}

	seed, err := json.Marshal(document.NewEmptyComposition(projectID, name))
	if err != nil {
		return nil, fmt.Errorf("marshal empty composition: %w", err)
	}
	if _, err := s.queries.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		ProjectID: projectID,
		Version:   1,
		Document:  seed,
	}); err != nil {
		return nil, fmt.Errorf("seed snapshot: %w", err)
	}

	return toProject(row), nil
}

func (s *Service) Get(ctx context.Context, projectID, userID string) (*Project, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}
	row, err := s.fetch(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toProject(row), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.queries.ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]Project, len(rows))
	for i, row := range rows {
		projects[i] = *toProject(row)
	}
	return projects, nil
}

func (s *Service) Delete(ctx context.Context, projectID, userID string) error {
	if _, err := s.requireOwner(ctx, projectID, userID); err != nil {
		return err
	}
	return s.queries.DeleteProject(ctx, projectID)
}

// InviteByEmail adds an existing user to the project as an editor. Only the
// owner may invite; inviting a current member is a no-op.
func (s *Service) InviteByEmail(ctx context.Context, projectID, ownerID, inviteeEmail string) error {
	if _, err := s.requireOwner(ctx, projectID, ownerID); err != nil {
		return err
	}

	invitee, err := s.queries.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	return s.queries.AddProjectMember(ctx, dbgen.AddProjectMemberParams{
		ProjectID: projectID,
		UserID:    invitee.ID,
		Role:      dbgen.ProjectRoleEditor,
	})
}

func (s *Service) ListMembers(ctx context.Context, projectID, userID string) ([]Member, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	rows, err := s.queries.ListProjectMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(rows))
	for i, row := range rows {
		members[i] = Member{
			UserID:      row.UserID,
			Role:        string(row.Role),
			DisplayName: row.DisplayName,
			Email:       row.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, projectID, ownerID, targetUserID string) error {
	if _, err := s.requireOwner(ctx, projectID, ownerID); err != nil {
		return err
	}
	if targetUserID == ownerID {
		return errors.New("cannot remove project owner")
	}
	return s.queries.RemoveProjectMember(ctx, dbgen.RemoveProjectMemberParams{
		ProjectID: projectID,
		UserID:    targetUserID,
	})
}

// GetLatestSnapshot returns the newest persisted composition document.
func (s *Service) GetLatestSnapshot(ctx context.Context, projectID, userID string) (json.RawMessage, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	snap, err := s.queries.GetLatestSnapshot(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Document, nil
}

// CheckMembership returns ErrNotMember when userID is not a member of the
// project. Used by HTTP handlers and the websocket join path.
func (s *Service) CheckMembership(ctx context.Context, projectID, userID string) error {
	_, err := s.queries.GetProjectMember(ctx, dbgen.GetProjectMemberParams{
		ProjectID: projectID,
		UserID:    userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, projectID string) (dbgen.Project, error) {
	row, err := s.queries.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Project{}, ErrNotFound
		}
		return dbgen.Project{}, fmt.Errorf("get project: %w", err)
	}
	return row, nil
}

func (s *Service) requireOwner(ctx context.Context, projectID, userID string) (dbgen.Project, error) {
	row, err := s.fetch(ctx, projectID)
	if err != nil {
		return dbgen.Project{}, err
	}
	if row.OwnerID != userID {
		return dbgen.Project{}, ErrForbidden
	}
	return row, nil
}

func toProject(row dbgen.Project) *Project {
	return &Project{
		ID:        row.ID,
		Name:      row.Name,
		OwnerID:   row.OwnerID,
		Width:     int(row.Width),
		Height:    int(row.Height),
		CreatedAt: row.CreatedAt.Time.UTC().Format(time.RFC3339),
		UpdatedAt: row.UpdatedAt.Time.UTC().Format(time.RFC3339),
	}
}
