package utils

import (
	"database/sql"
	"time"
)

const TimeLayout = "2006-01-02 15:04:05"

func NullStringToString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func NullTimeToEmptyString(nt sql.NullTime) string {
	if !nt.Valid {
		return ""
	}
	return nt.Time.Local().Format(TimeLayout)
}

func NullInt64ToPtr(ni sql.NullInt64) *uint64 {
	if !ni.Valid {
		return nil
	}
	v := uint64(ni.Int64)
	return &v
}

func NullFloatToPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func TimePtrToString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(TimeLayout)
}

func Ptr[T any](v T) *T { return &v }
