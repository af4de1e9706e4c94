package scoring

import (
	"sort"

	"github.com/nekoweb3/alphabot/internal/models"
)

// Ranked pairs a project with its alpha score.
type Ranked struct {
	Project models.Project
	Alpha   int
}

// Top returns at most n projects ordered by descending alpha score. Ties go to the most
// recently created project, then to the lexically smaller address.
func Top(projects []models.Project, n int) []Ranked {
	ranked := make([]Ranked, len(projects))
	for i, p := range projects {
		ranked[i] = Ranked{Project: p, Alpha: Alpha(p)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Alpha != b.Alpha {
			return a.Alpha > b.Alpha
		}
		if !a.Project.CreatedAt.Equal(b.Project.CreatedAt) {
			return a.Project.CreatedAt.After(b.Project.CreatedAt)
		}
		return a.Project.Address < b.Project.Address
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
