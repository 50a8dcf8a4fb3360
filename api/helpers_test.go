package api

import (
	"strconv"

	"github.com/shopspring/decimal"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }
