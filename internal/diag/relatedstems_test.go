package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRelatedStemsGroupsVariations(t *testing.T) {
	r := BuildRelatedStems([]string{"running", "runs", "runner", "api"}, 3)
	vars := r.Variations("running")
	assert.Contains(t, vars, "running")
	assert.Contains(t, vars, "runs")
}

func TestVariationsShortWordIsSingleton(t *testing.T) {
	r := BuildRelatedStems([]string{"api", "http"}, 3)
	assert.Equal(t, []string{"api"}, r.Variations("api"))
}

func TestClustersOmitsSingletons(t *testing.T) {
	r := BuildRelatedStems([]string{"search", "searching", "database"}, 3)
	clusters := r.Clusters()
	for _, words := range clusters {
		assert.Greater(t, len(words), 1)
	}
}
