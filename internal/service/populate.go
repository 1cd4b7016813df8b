package service

import (
	"context"

	"github.com/noah-isme/college-erp-api/internal/models"
)

type userLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type departmentLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Department, error)
}

type courseLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

// refResolver turns reference ids into their populated short forms with one query per collection.
type refResolver struct {
	users       userLookup
	departments departmentLookup
	courses     courseLookup
}

func (r refResolver) userRefs(ctx context.Context, ids []string) (map[string]*models.UserRef, error) {
	out := map[string]*models.UserRef{}
	ids = uniqueIDs(ids)
	if r.users == nil || len(ids) == 0 {
		return out, nil
	}
	users, err := r.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = users[i].Ref()
	}
	return out, nil
}

func (r refResolver) departmentRefs(ctx context.Context, ids []string) (map[string]*models.DepartmentRef, error) {
	out := map[string]*models.DepartmentRef{}
	ids = uniqueIDs(ids)
	if r.departments == nil || len(ids) == 0 {
		return out, nil
	}
	departments, err := r.departments.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range departments {
		out[departments[i].ID] = departments[i].Ref()
	}
	return out, nil
}

func (r refResolver) courseMap(ctx context.Context, ids []string) (map[string]models.Course, error) {
	out := map[string]models.Course{}
	ids = uniqueIDs(ids)
	if r.courses == nil || len(ids) == 0 {
		return out, nil
	}
	courses, err := r.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		out[c.ID] = c
	}
	return out, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
