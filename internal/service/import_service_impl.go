package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/metraj/internal/db"
	"github.com/alexanderramin/metraj/internal/importer"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/cockroachdb/errors"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService persists imports through uow. Repositories are created
// per transaction.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "loading import file")
	}
	return s.ImportSchema(ctx, schema)
}

func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (res *ImportResult, err error) {
	fields := map[string]any{"items": len(schema.Items)}
	defer observe(ctx, s.observer, "import.schema", time.Now(), &err, fields)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	imported, err := importer.Convert(schema)
	if err != nil {
		return nil, errors.Wrap(err, "converting import schema")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		items := repository.NewSQLiteLineItemRepo(tx)

		if err := projects.Create(ctx, imported.Project); err != nil {
			return errors.Wrap(err, "creating project")
		}
		for _, li := range imported.Items {
			if err := items.Create(ctx, li); err != nil {
				return errors.Wrapf(err, "creating line item %q", li.DisplayPoz())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["project_id"] = imported.Project.ID
	return &ImportResult{Project: imported.Project, ItemCount: len(imported.Items)}, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return errors.New(b.String())
}
