package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/metraj/internal/db"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/alexanderramin/metraj/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	db       *sql.DB
	projects repository.ProjectRepo
	items    repository.LineItemRepo
	reports  repository.AnalysisRepo
	uow      db.UnitOfWork
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testRepos{
		db:       database,
		projects: repository.NewSQLiteProjectRepo(database),
		items:    repository.NewSQLiteLineItemRepo(database),
		reports:  repository.NewSQLiteAnalysisRepo(database),
		uow:      testutil.NewTestUoW(database),
	}
}

func seedProject(t *testing.T, r testRepos, items ...*domain.LineItem) *domain.Project {
	t.Helper()
	ctx := context.Background()
	p := testutil.NewTestProject("Konut Blok A")
	require.NoError(t, r.projects.Create(ctx, p))
	for i, li := range items {
		li.ProjectID = p.ID
		li.OrderIndex = i
		require.NoError(t, r.items.Create(ctx, li))
	}
	return p
}
