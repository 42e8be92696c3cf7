package repository

import (
	"strings"

	"github.com/pweat/rejestr-prac/internal/dto"

	"gorm.io/gorm"
)

// listSpec fixes what a list endpoint may search and sort on. Column names
// come only from these literals, never from the request.
type listSpec struct {
	searchColumns []string
	sortColumns   map[string]string // request key → SQL column
	defaultOrder  string
	// columns is the page projection, applied after counting; needed when
	// the query joins tables with overlapping column names.
	columns string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filter adds a case-insensitive substring match over every search column.
func (s listSpec) filter(q *gorm.DB, term string) *gorm.DB {
	if term == "" || len(s.searchColumns) == 0 {
		return q
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	conds := make([]string, len(s.searchColumns))
	args := make([]interface{}, len(s.searchColumns))
	for i, col := range s.searchColumns {
		conds[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// order resolves the requested sort through the allow-list.
func (s listSpec) order(lq dto.ListQuery) string {
	col, ok := s.sortColumns[lq.SortBy]
	if !ok {
		return s.defaultOrder
	}
	if lq.SortOrder == "desc" {
		return col + " DESC"
	}
	return col + " ASC"
}

// paginate counts the filtered rows and loads one page of them into dest.
func (s listSpec) paginate(q *gorm.DB, lq dto.ListQuery, dest interface{}) (int64, error) {
	q = s.filter(q, lq.Search)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	if s.columns != "" {
		q = q.Select(s.columns)
	}
	err := q.Order(s.order(lq)).Limit(lq.Limit).Offset(lq.Offset()).Find(dest).Error
	return total, err
}

// affected turns a zero-row write into gorm.ErrRecordNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
