package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/markdown"
	"github.com/templui/portfolio/internal/model"
)

type ProjectService struct {
	parser      *markdown.Parser
	contentPath string
}

func NewProjectService(contentPath string) *ProjectService {
	return &ProjectService{
		parser:      markdown.NewParser(),
		contentPath: contentPath,
	}
}

// Projects returns every project sorted by order, then title.
// Files that fail to parse are skipped.
func (s *ProjectService) Projects() ([]*model.Project, error) {
	pattern := filepath.Join(s.contentPath, "projects", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	projects := make([]*model.Project, 0, len(files))
	for _, file := range files {
		project, err := s.Project(strings.TrimSuffix(filepath.Base(file), ".md"))
		if err != nil {
			continue
		}
		projects = append(projects, project)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Order != projects[j].Order {
			return projects[i].Order < projects[j].Order
		}
		return projects[i].Title < projects[j].Title
	})

	return projects, nil
}

func (s *ProjectService) Project(slug string) (*model.Project, error) {
	if slug == "" || strings.ContainsAny(slug, `/\.`) {
		return nil, apperror.NotFound("project", slug)
	}

	path := filepath.Join(s.contentPath, "projects", slug+".md")
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperror.NotFound("project", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project %s: %w", slug, err)
	}

	htmlContent, meta, err := s.parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", slug, err)
	}

	project := &model.Project{
		Slug:        slug,
		Title:       metaString(meta, "title"),
		Description: metaString(meta, "description"),
		Image:       metaString(meta, "image"),
		GitHubURL:   metaString(meta, "github_url"),
		LiveURL:     metaString(meta, "live_url"),
		Content:     string(content),
		HTMLContent: string(htmlContent),
	}

	if project.Title == "" {
		project.Title = titleFromSlug(slug)
	}

	switch order := meta["order"].(type) {
	case int:
		project.Order = order
	case float64:
		project.Order = int(order)
	}

	tags, ok := meta["tags"].([]any)
	if ok {
		for _, tag := range tags {
			tagStr, ok := tag.(string)
			if ok {
				project.Tags = append(project.Tags, tagStr)
			}
		}
	}

	return project, nil
}

func metaString(meta map[string]any, key string) string {
	v, _ := meta[key].(string)
	return v
}

// titleFromSlug turns "iot-project" into "Iot Project".
func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
