package service

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"shoppos/internal/dto"
	"shoppos/internal/model"
	"shoppos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	permCachePrefix = "perms:"
	permCacheTTL    = 10 * time.Minute
)

type PermissionService interface {
	List(ctx context.Context) ([]dto.PermissionResponse, error)
	Update(ctx context.Context, req dto.UpdatePermissionRequest) (*dto.PermissionResponse, error)
	// HasAccess: admin always passes; otherwise the stored flag, missing row denies.
	HasAccess(ctx context.Context, role, pagePath string) (bool, error)
	AllowedPages(ctx context.Context, role string) ([]string, error)
}

type permissionService struct {
	repo repository.PermissionRepository
	rdb  *redis.Client // nil disables caching
}

func NewPermissionService(repo repository.PermissionRepository, rdb *redis.Client) PermissionService {
	return &permissionService{repo: repo, rdb: rdb}
}

func (s *permissionService) List(ctx context.Context) ([]dto.PermissionResponse, error) {
	perms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PermissionResponse, len(perms))
	for i := range perms {
		resp[i] = permissionToResponse(&perms[i])
	}
	return resp, nil
}

func (s *permissionService) Update(ctx context.Context, req dto.UpdatePermissionRequest) (*dto.PermissionResponse, error) {
	if !slices.Contains(model.Roles, req.Role) {
		return nil, ErrInvalidRole
	}
	// ID is left zero so the upsert returns the existing row's id.
	p := &model.RolePermission{
		Role:      req.Role,
		PagePath:  req.PagePath,
		CanAccess: req.CanAccess != nil && *req.CanAccess,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.Role)
	resp := permissionToResponse(p)
	return &resp, nil
}

func (s *permissionService) HasAccess(ctx context.Context, role, pagePath string) (bool, error) {
	switch role {
	case "":
		return false, nil
	case model.RoleAdmin:
		return true, nil
	}
	pages, err := s.rolePages(ctx, role)
	if err != nil {
		return false, err
	}
	return pages[pagePath], nil
}

func (s *permissionService) AllowedPages(ctx context.Context, role string) ([]string, error) {
	switch role {
	case "":
		return []string{}, nil
	case model.RoleAdmin:
		return slices.Clone(model.Pages), nil
	}
	pages, err := s.rolePages(ctx, role)
	if err != nil {
		return nil, err
	}
	allowed := []string{}
	for _, p := range model.Pages {
		if pages[p] {
			allowed = append(allowed, p)
		}
	}
	return allowed, nil
}

// rolePages returns page_path → can_access for role, served from Redis when
// cached. Cache failures fall through to the database.
func (s *permissionService) rolePages(ctx context.Context, role string) (map[string]bool, error) {
	key := permCachePrefix + role
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var pages map[string]bool
			if json.Unmarshal(cached, &pages) == nil {
				return pages, nil
			}
		}
	}

	perms, err := s.repo.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]bool, len(perms))
	for _, p := range perms {
		pages[p.PagePath] = p.CanAccess
	}

	if s.rdb != nil {
		if data, err := json.Marshal(pages); err == nil {
			if err := s.rdb.Set(ctx, key, data, permCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("role", role).Msg("permissions: cache write failed")
			}
		}
	}
	return pages, nil
}

func (s *permissionService) invalidate(ctx context.Context, role string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, permCachePrefix+role).Err(); err != nil {
		log.Warn().Err(err).Str("role", role).Msg("permissions: cache invalidation failed")
	}
}

func permissionToResponse(p *model.RolePermission) dto.PermissionResponse {
	return dto.PermissionResponse{
		ID:        p.ID.String(),
		Role:      p.Role,
		PagePath:  p.PagePath,
		CanAccess: p.CanAccess,
	}
}
