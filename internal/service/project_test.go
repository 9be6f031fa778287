package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/portfolio/internal/apperror"
)

func writeProject(t *testing.T, root, slug, body string) {
	t.Helper()
	dir := filepath.Join(root, "projects")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".md"), []byte(body), 0o644))
}

func TestProjectService_Projects(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "iot-project", "---\ntitle: IoT Project\norder: 3\nlive_url: https://thingspeak.mathworks.com/channels/2788309\n---\nSensors.\n")
	writeProject(t, root, "portfolio", "---\ntitle: Web Development Portfolio\norder: 1\ngithub_url: https://github.com/example/portfolio\ntags: [nextjs, tailwind]\n---\nThis site.\n")
	writeProject(t, root, "minitab", "---\ntitle: Data Analysis using Minitab\norder: 1\n---\nStats.\n")

	projects, err := NewProjectService(root).Projects()
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, "Data Analysis using Minitab", projects[0].Title)
	assert.Equal(t, "Web Development Portfolio", projects[1].Title)
	assert.Equal(t, "IoT Project", projects[2].Title)

	assert.Equal(t, "portfolio", projects[1].Slug)
	assert.Equal(t, "https://github.com/example/portfolio", projects[1].GitHubURL)
	assert.Equal(t, []string{"nextjs", "tailwind"}, projects[1].Tags)
	assert.Equal(t, "https://thingspeak.mathworks.com/channels/2788309", projects[2].LiveURL)
	assert.Contains(t, projects[2].HTMLContent, "Sensors.")
}

func TestProjectService_EmptyDirectory(t *testing.T) {
	projects, err := NewProjectService(t.TempDir()).Projects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectService_TitleFallsBackToSlug(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "home-automation", "No frontmatter here.\n")

	project, err := NewProjectService(root).Project("home-automation")
	require.NoError(t, err)
	assert.Equal(t, "Home Automation", project.Title)
	assert.Zero(t, project.Order)
}

func TestProjectService_NotFound(t *testing.T) {
	s := NewProjectService(t.TempDir())

	for _, slug := range []string{"missing", "../secrets", "", "a/b"} {
		_, err := s.Project(slug)
		assert.ErrorIs(t, err, apperror.ErrNotFound, slug)
	}
}
