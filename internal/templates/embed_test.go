package templates

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLandingFS_HasEveryPage(t *testing.T) {
	for _, name := range []string{PageStudent, PageDoctor, PageLogin} {
		_, err := fs.Stat(LandingFS(), name+".md")
		require.NoError(t, err, name)
	}
}

func TestRender_Doctor(t *testing.T) {
	out, err := Render(PageDoctor, Page{
		Institution:    "KDU",
		FirstName:      "Nimal",
		LastName:       "Perera",
		Email:          "nimal@kdu.ac.lk",
		Specialization: "Cardiology",
		Since:          "now",
	})
	require.NoError(t, err)
	require.Contains(t, out, "# Welcome, Dr. Perera")
	require.Contains(t, out, "| Specialization | Cardiology |")
	require.Contains(t, out, "at KDU.")
}

func TestRender_Student(t *testing.T) {
	out, err := Render(PageStudent, Page{Institution: "KDU", FirstName: "Amaya", LastName: "Silva", Email: "amaya@kdu.ac.lk"})
	require.NoError(t, err)
	require.Contains(t, out, "# Welcome, Amaya")
	require.NotContains(t, out, "Specialization")
}

func TestRender_UnknownPage(t *testing.T) {
	_, err := Render("admin", Page{})
	require.ErrorContains(t, err, `landing page "admin"`)
}
