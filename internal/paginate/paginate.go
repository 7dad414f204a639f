// Package paginate implements the shared list-pagination contract: a fixed
// page size of 10, pageReq 0 meaning "everything on one page", and rejection
// of pages past the end (except page 1, which is always accepted so callers
// can request the first page of an empty set).
package paginate

import "fmt"

// PageSize is fixed across every listing endpoint.
const PageSize = 10

// Window is the skip/limit pair applied to the store query. A zero Limit
// means unpaged.
type Window struct {
	Skip  int
	Limit int
}

// RangeError reports a requested page past the actual total.
type RangeError struct {
	Requested  int
	TotalPages int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("page %d requested but there are only %d pages", e.Requested, e.TotalPages)
}

// Resolve converts a matching-document count and a requested page into a
// query window and the total page count.
//
//	pageReq <= 0  → all documents, totalPages = 1
//	pageReq >= 1  → totalPages = ceil(total/10); pages beyond that fail,
//	                except page 1 which never fails
func Resolve(total, pageReq int) (Window, int, error) {
	if pageReq <= 0 {
		return Window{}, 1, nil
	}
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < pageReq && pageReq != 1 {
		return Window{}, totalPages, RangeError{Requested: pageReq, TotalPages: totalPages}
	}
	return Window{Skip: (pageReq - 1) * PageSize, Limit: PageSize}, totalPages, nil
}
