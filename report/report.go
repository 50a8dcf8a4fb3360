/*
Package report derives dashboard figures and exports from listed records.

PURPOSE:
  The dashboard shows how much is owed against how much came in, narrowed by
  a set of free-text filters, plus per-group totals for charts. Everything
  here is a pure function of the records it is given: callers list invoices
  through books.Service first, so the overdue transition has already been
  applied.

FILTERS:
  Text filters match by substring, the way the dashboard inputs behave while
  the user is typing. Month matches by prefix on the date ("2024-03" or just
  "2024"). Empty filters match everything. TaskFilter and
  AdminDocumentFilter narrow their lists the same way.

PRECISION:
  All sums use decimal.Decimal. Nothing is rounded.
*/
package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/paperwork/books"
)

// Filter narrows invoices and revenues. Invoice fields and revenue fields
// are independent; Month applies to both.
type Filter struct {
	Category    string
	Concern     string
	Creditor    string
	Status      string
	Month       string // prefix of due_date, and of receipt_date unless RevenueMonth is set
	Source      string
	RevenueType string

	// RevenueMonth is the revenue list's own month input.
	RevenueMonth string
}

// MatchInvoice reports whether inv passes the invoice filters.
func (f Filter) MatchInvoice(inv books.Invoice) bool {
	return strings.Contains(inv.Category, f.Category) &&
		strings.Contains(inv.Concern, f.Concern) &&
		strings.Contains(inv.Creditor, f.Creditor) &&
		strings.Contains(string(inv.Status), f.Status) &&
		strings.HasPrefix(inv.DueDate, f.Month)
}

// MatchRevenue reports whether rev passes the revenue filters.
func (f Filter) MatchRevenue(rev books.Revenue) bool {
	return strings.Contains(rev.Source, f.Source) &&
		strings.Contains(rev.Type, f.RevenueType) &&
		strings.HasPrefix(rev.ReceiptDate, f.revenueMonth())
}

func (f Filter) revenueMonth() string {
	if f.RevenueMonth != "" {
		return f.RevenueMonth
	}
	return f.Month
}

// Invoices returns the invoices that match, in their original order.
func (f Filter) Invoices(invoices []books.Invoice) []books.Invoice {
	return keep(invoices, f.MatchInvoice)
}

// Revenues returns the revenues that match, in their original order.
func (f Filter) Revenues(revenues []books.Revenue) []books.Revenue {
	return keep(revenues, f.MatchRevenue)
}

// TaskFilter narrows the task list.
type TaskFilter struct {
	Category string
	Priority string
	Status   string
}

// Match reports whether t passes every filter.
func (f TaskFilter) Match(t books.Task) bool {
	return strings.Contains(t.Category, f.Category) &&
		strings.Contains(t.Priority, f.Priority) &&
		strings.Contains(t.Status, f.Status)
}

// Tasks returns the tasks that match, in their original order.
func (f TaskFilter) Tasks(tasks []books.Task) []books.Task {
	return keep(tasks, f.Match)
}

// AdminDocumentFilter narrows the administrative document list.
type AdminDocumentFilter struct {
	Category string
	Concern  string
	Status   string
}

// Match reports whether d passes every filter.
func (f AdminDocumentFilter) Match(d books.AdminDocument) bool {
	return strings.Contains(d.Category, f.Category) &&
		strings.Contains(d.Concern, f.Concern) &&
		strings.Contains(d.Status, f.Status)
}

// AdminDocuments returns the documents that match, in their original order.
func (f AdminDocumentFilter) AdminDocuments(docs []books.AdminDocument) []books.AdminDocument {
	return keep(docs, f.Match)
}

func keep[T any](items []T, match func(T) bool) []T {
	var out []T
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary is the dashboard headline.
type Summary struct {
	InvoiceCount int
	InvoiceTotal decimal.Decimal
	RevenueCount int
	RevenueTotal decimal.Decimal

	// Balance is RevenueTotal - InvoiceTotal.
	Balance decimal.Decimal
}

// Summarize totals the records that pass f.
func Summarize(invoices []books.Invoice, revenues []books.Revenue, f Filter) Summary {
	s := Summary{InvoiceTotal: decimal.Zero, RevenueTotal: decimal.Zero}
	for _, inv := range f.Invoices(invoices) {
		s.InvoiceCount++
		s.InvoiceTotal = s.InvoiceTotal.Add(inv.Amount)
	}
	for _, rev := range f.Revenues(revenues) {
		s.RevenueCount++
		s.RevenueTotal = s.RevenueTotal.Add(rev.Amount)
	}
	s.Balance = s.RevenueTotal.Sub(s.InvoiceTotal)
	return s
}

// =============================================================================
// GROUPING
// =============================================================================

// GroupBy selects the key invoices are bucketed on.
type GroupBy string

const (
	ByMonth    GroupBy = "month"
	ByCategory GroupBy = "category"
	ByCreditor GroupBy = "creditor"
	ByStatus   GroupBy = "status"
)

// Bucket is one group's total.
type Bucket struct {
	Key   string
	Count int
	Total decimal.Decimal
}

// GroupInvoices totals invoice amounts per key. Buckets come out in the
// order their key was first seen.
func GroupInvoices(invoices []books.Invoice, by GroupBy) ([]Bucket, error) {
	keyOf, err := groupKey(by)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var buckets []Bucket
	for _, inv := range invoices {
		key := keyOf(inv)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Total: decimal.Zero})
		}
		buckets[i].Count++
		buckets[i].Total = buckets[i].Total.Add(inv.Amount)
	}
	return buckets, nil
}

func groupKey(by GroupBy) (func(books.Invoice) string, error) {
	switch by {
	case ByMonth:
		return func(inv books.Invoice) string {
			if len(inv.DueDate) >= 7 {
				return inv.DueDate[:7]
			}
			return inv.DueDate
		}, nil
	case ByCategory:
		return func(inv books.Invoice) string { return inv.Category }, nil
	case ByCreditor:
		return func(inv books.Invoice) string { return inv.Creditor }, nil
	case ByStatus:
		return func(inv books.Invoice) string { return string(inv.Status) }, nil
	default:
		return nil, &books.ValidationError{Field: "group_by", Value: string(by), Reason: "expected month, category, creditor or status"}
	}
}
