package repository

import (
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/pgconv"
)

func wrapPgErr(msg string, err error) error {
	switch {
	case pgconv.IsNoRows(err):
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	case pgconv.IsUniqueViolation(err):
		return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
	case pgconv.IsForeignKeyViolation(err):
		return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
	case pgconv.IsCheckViolation(err):
		return infra.WrapRepoErr(msg, err, infra.KindConflict)
	default:
		return infra.WrapRepoErr(msg, err)
	}
}
