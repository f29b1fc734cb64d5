// Package option provides composable query options for gorm statements.
package option

import (
	"fmt"

	"github.com/smallbiznis/ledgerline/pkg/db/pagination"
	"gorm.io/gorm"
)

type Operator string

const (
	EQ  Operator = "="
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

type conditionOption struct {
	cond Condition
}

func (o conditionOption) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("%s %s ?", o.cond.Field, o.cond.Operator), o.cond.Value)
}

func ApplyOperator(cond Condition) QueryOption {
	return conditionOption{cond: cond}
}

type orderOption struct {
	order string
}

func (o orderOption) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.order)
}

func WithOrder(order string) QueryOption {
	return orderOption{order: order}
}

type paginationOption struct {
	page pagination.Pagination
}

func (o paginationOption) Apply(db *gorm.DB) *gorm.DB {
	size := o.page.PageSize
	if size <= 0 {
		size = pagination.DefaultPageSize
	}
	stmt := db.Limit(size)
	if o.page.Offset > 0 {
		stmt = stmt.Offset(o.page.Offset)
	}
	return stmt
}

func ApplyPagination(page pagination.Pagination) QueryOption {
	return paginationOption{page: page}
}
