package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recycling-rewards-backend/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
)

type ContentInput struct {
	Title string             `json:"title" validate:"required,max=200"`
	Kind  models.ContentKind `json:"kind" validate:"omitempty,oneof=article video infographic"`
	Body  string             `json:"body" validate:"required"`
}

type ContentService struct {
	store    Store
	uploader Uploader
}

func NewContentService(store Store, uploader Uploader) *ContentService {
	return &ContentService{store: store, uploader: uploader}
}

// searchText folds text to lowercase ASCII so "Sticlă" matches a search for "sticla".
func searchText(parts ...string) string {
	return strings.ToLower(unidecode.Unidecode(strings.Join(parts, " ")))
}

func (s *ContentService) Create(ctx context.Context, in ContentInput) (*models.EducationalContent, error) {
	kind, err := contentKind(in.Kind)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}

	base := slug.Make(title)
	if base == "" {
		base = "content"
	}
	unique, err := s.uniqueSlug(ctx, base)
	if err != nil {
		return nil, err
	}

	c := &models.EducationalContent{
		ID:         uuid.NewString(),
		Title:      title,
		Slug:       unique,
		Kind:       kind,
		Body:       in.Body,
		SearchText: searchText(title, in.Body),
	}
	if err := s.store.Content().Create(ctx, c); err != nil {
		return nil, domainOr("create content", err)
	}
	return c, nil
}

// uniqueSlug appends -2, -3, ... to base until no existing slug matches.
func (s *ContentService) uniqueSlug(ctx context.Context, base string) (string, error) {
	existing, err := s.store.Content().SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", storageErr("load slugs", err)
	}
	taken := false
	maxN := 1
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `-(\d+)$`)
	for _, sl := range existing {
		if sl == base {
			taken = true
			continue
		}
		if m := re.FindStringSubmatch(sl); len(m) == 2 {
			if n, err := strconv.Atoi(m[1]); err == nil && n > maxN {
				maxN = n
			}
		}
	}
	if !taken {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, maxN+1), nil
}

func contentKind(k models.ContentKind) (models.ContentKind, error) {
	switch k {
	case "":
		return models.ContentArticle, nil
	case models.ContentArticle, models.ContentVideo, models.ContentInfographic:
		return k, nil
	}
	return "", invalid("unknown content kind %q", k)
}

// Update keeps the slug stable so published links keep working.
func (s *ContentService) Update(ctx context.Context, slugStr string, in ContentInput) (*models.EducationalContent, error) {
	c, err := s.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	kind, err := contentKind(in.Kind)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		c.Title = t
	}
	c.Kind = kind
	c.Body = in.Body
	c.SearchText = searchText(c.Title, c.Body)
	if err := s.store.Content().Update(ctx, c); err != nil {
		return nil, storageErr("update content", err)
	}
	return c, nil
}

func (s *ContentService) GetBySlug(ctx context.Context, slugStr string) (*models.EducationalContent, error) {
	c, ok, err := s.store.Content().FindBySlug(ctx, slugStr)
	if err != nil {
		return nil, storageErr("load content", err)
	}
	if !ok {
		return nil, notFound("content %s", slugStr)
	}
	return c, nil
}

func (s *ContentService) Delete(ctx context.Context, slugStr string) error {
	c, err := s.GetBySlug(ctx, slugStr)
	if err != nil {
		return err
	}
	if _, err := s.store.Content().Delete(ctx, c.ID); err != nil {
		return storageErr("delete content", err)
	}
	return nil
}

func (s *ContentService) List(ctx context.Context, query string, kind models.ContentKind, page, size int) (models.Page[models.EducationalContent], error) {
	page, size = normalizePage(page, size)
	if kind != "" {
		if _, err := contentKind(kind); err != nil {
			return models.Page[models.EducationalContent]{}, err
		}
	}
	items, total, err := s.store.Content().List(ctx, ContentFilter{
		Query:  searchText(strings.TrimSpace(query)),
		Kind:   kind,
		Offset: (page - 1) * size,
		Limit:  size,
	})
	if err != nil {
		return models.Page[models.EducationalContent]{}, storageErr("list content", err)
	}
	return models.NewPage(items, page, size, total), nil
}

func (s *ContentService) AttachImage(ctx context.Context, slugStr, filename, contentType string, body []byte) (*models.EducationalContent, error) {
	if s.uploader == nil {
		return nil, invalid("image storage is not configured")
	}
	c, err := s.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.Put(ctx, "content/"+c.Slug+"-"+uuid.NewString()[:8]+imageExt(filename), contentType, body)
	if err != nil {
		return nil, storageErr("upload content image", err)
	}
	c.ImageURL = url
	if err := s.store.Content().Update(ctx, c); err != nil {
		return nil, storageErr("update content", err)
	}
	return c, nil
}
