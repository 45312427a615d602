package xpgx

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the database surface the store works against. It is an interface
// so tests can substitute a fake without a running Postgres.
type Pool interface {
	// squirrel-builder variants
	Execx(ctx context.Context, q squirrel.Sqlizer) (pgconn.CommandTag, error)
	Getx(ctx context.Context, dst interface{}, q squirrel.Sqlizer) error
	Selectx(ctx context.Context, dst interface{}, q squirrel.Sqlizer) error

	// raw-SQL variants, for DDL and for statements assembled outside squirrel
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Get(ctx context.Context, dst interface{}, sql string, args ...interface{}) error
	Select(ctx context.Context, dst interface{}, sql string, args ...interface{}) error

	Close()
}

type pool struct {
	inner *pgxpool.Pool
}

// NewPool connects a pgx pool and wraps it.
func NewPool(ctx context.Context, dsn string) (Pool, error) {
	inner, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := inner.Ping(ctx); err != nil {
		inner.Close()
		return nil, fmt.Errorf("pgxpool.Ping: %w", err)
	}
	return &pool{inner: inner}, nil
}

func (p *pool) Close() {
	p.inner.Close()
}

func (p *pool) Execx(ctx context.Context, q squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("ToSql: %w", err)
	}
	return p.Exec(ctx, sql, args...)
}

func (p *pool) Getx(ctx context.Context, dst interface{}, q squirrel.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}
	return p.Get(ctx, dst, sql, args...)
}

func (p *pool) Selectx(ctx context.Context, dst interface{}, q squirrel.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}
	return p.Select(ctx, dst, sql, args...)
}

func (p *pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return p.inner.Exec(ctx, sql, args...)
}

// Get scans the first row into dst, which is either a pointer to a
// db-tagged struct or a pointer to a scalar. Returns pgx.ErrNoRows when the
// query yields nothing.
func (p *pool) Get(ctx context.Context, dst interface{}, sql string, args ...interface{}) error {
	rows, err := p.inner.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return pgx.ErrNoRows
	}

	if err := scanInto(rows, dst); err != nil {
		return err
	}
	return rows.Err()
}

// Select scans all rows into dst, a pointer to a slice of (pointers to)
// db-tagged structs.
func (p *pool) Select(ctx context.Context, dst interface{}, sql string, args ...interface{}) error {
	rows, err := p.inner.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	slice := reflect.ValueOf(dst)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("xpgx: Select dst must be a pointer to a slice, got %T", dst)
	}
	sliceVal := slice.Elem()
	elemType := sliceVal.Type().Elem()

	isPtrElem := elemType.Kind() == reflect.Ptr
	structType := elemType
	if isPtrElem {
		structType = elemType.Elem()
	}

	for rows.Next() {
		elem := reflect.New(structType)
		if err := scanInto(rows, elem.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal = reflect.Append(sliceVal, elem)
		} else {
			sliceVal = reflect.Append(sliceVal, elem.Elem())
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	slice.Elem().Set(sliceVal)
	return nil
}

// scanInto maps the current row onto dst by `db` tag (falling back to the
// lowercased field name), or scans directly when dst is not a struct.
func scanInto(rows pgx.Rows, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("xpgx: dst must be a non-nil pointer, got %T", dst)
	}

	elem := v.Elem()
	if elem.Kind() != reflect.Struct || elem.Type().String() == "time.Time" {
		return rows.Scan(dst)
	}

	byColumn := make(map[string]interface{})
	collectFields(elem, byColumn)

	targets := make([]interface{}, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		target, ok := byColumn[string(fd.Name)]
		if !ok {
			return fmt.Errorf("xpgx: no field for column %q in %s", fd.Name, elem.Type())
		}
		targets = append(targets, target)
	}

	return rows.Scan(targets...)
}

func collectFields(structVal reflect.Value, byColumn map[string]interface{}) {
	t := structVal.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // unexported
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectFields(structVal.Field(i), byColumn)
			continue
		}

		column := field.Tag.Get("db")
		if column == "-" {
			continue
		}
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		byColumn[column] = structVal.Field(i).Addr().Interface()
	}
}
