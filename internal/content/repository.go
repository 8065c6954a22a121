package content

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/richtext"
)

// GormRepository persists every content entity through a Gorm connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ auth.RoleLookup = (*GormRepository)(nil)

// Ping checks that the underlying database answers.
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return eris.Wrap(err, "retrieving sql.DB")
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return eris.Wrap(err, "pinging database")
	}

	return nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

// readFailed logs and wraps a failed read. Missing records become ErrNotFound.
func (r *GormRepository) readFailed(err error, entity string, id uint, message string) error {
	if eris.Is(err, gorm.ErrRecordNotFound) {
		return eris.Wrapf(ErrNotFound, "%s %d", entity, id)
	}

	r.logError(logrus.Fields{"entity": entity, "id": id}, err, message)
	return eris.Wrap(err, message)
}

// writeFailed logs and wraps a failed write. Reference and lookup errors raised inside the
// transaction are passed through untouched.
func (r *GormRepository) writeFailed(err error, entity string, message string) error {
	switch {
	case eris.Is(err, ErrInvalidReference), eris.Is(err, ErrNotFound), eris.Is(err, ErrDuplicate):
		return err
	case eris.Is(err, gorm.ErrDuplicatedKey):
		return eris.Wrapf(ErrDuplicate, "%s", entity)
	}

	r.logError(logrus.Fields{"entity": entity}, err, message)
	return eris.Wrap(err, message)
}

func applyLimit(query *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return query.Limit(limit)
	}
	return query
}

func orderedBy(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}

func storiesScope(includeDrafts bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !includeDrafts {
			db = db.Where("published = ?", true)
		}
		return db.Order("title ASC")
	}
}

// loadByIDs fetches every record addressed by ids. A missing id fails with ErrInvalidReference.
func loadByIDs[T any](tx *gorm.DB, ids *[]uint, field string) ([]T, error) {
	if ids == nil || len(*ids) == 0 {
		return []T{}, nil
	}

	seen := make(map[uint]struct{}, len(*ids))
	unique := make([]uint, 0, len(*ids))
	for _, id := range *ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var records []T
	if err := tx.Where("id IN ?", unique).Find(&records).Error; err != nil {
		return nil, eris.Wrapf(err, "loading %s", field)
	}

	if len(records) != len(unique) {
		return nil, eris.Wrapf(ErrInvalidReference, "%s contains unknown ids", field)
	}

	return records, nil
}

func ensureExists[T any](tx *gorm.DB, id uint, field string) error {
	var count int64
	if err := tx.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return eris.Wrapf(err, "checking %s", field)
	}

	if count == 0 {
		return eris.Wrapf(ErrInvalidReference, "%s %d does not exist", field, id)
	}

	return nil
}

func toList(values *[]string) StringList {
	list := StringList{}
	if values == nil {
		return list
	}

	for _, value := range *values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			list = append(list, trimmed)
		}
	}

	return list
}

func fromList(list StringList) []string {
	if len(list) == 0 {
		return []string{}
	}

	values := make([]string, len(list))
	copy(values, list)
	return values
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

// optional trims value and turns blanks into NULL.
func optional(value *string) *string {
	text := trimmed(value)
	if text == "" {
		return nil
	}
	return &text
}

func setOptional(changes map[string]any, column string, value *string) {
	if value != nil {
		changes[column] = optional(value)
	}
}

func setRequired(changes map[string]any, column string, value *string) {
	if value != nil {
		changes[column] = trimmed(value)
	}
}

func setList(changes map[string]any, column string, values *[]string) {
	if values != nil {
		changes[column] = toList(values)
	}
}

// applyChanges writes changes to record. An empty change set still bumps updated_at so
// relation-only updates move the record in updatedAt ordering.
func applyChanges(tx *gorm.DB, record any, changes map[string]any) error {
	if len(changes) == 0 {
		changes["updated_at"] = time.Now()
	}

	return tx.Model(record).Updates(changes).Error
}

func replaceAssociation[T any](tx *gorm.DB, owner any, name string, records []T) error {
	association := tx.Model(owner).Association(name)
	if len(records) == 0 {
		return association.Clear()
	}
	return association.Replace(records)
}

func sanitize(value *string) (string, error) {
	clean, err := richtext.Sanitize(trimmed(value))
	if err != nil {
		return "", eris.Wrap(err, "sanitizing content")
	}
	return clean, nil
}

func sanitizeOptional(value *string) (*string, error) {
	if optional(value) == nil {
		return nil, nil
	}

	clean, err := sanitize(value)
	if err != nil {
		return nil, err
	}
	return &clean, nil
}
