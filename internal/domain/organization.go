package domain

// Organization is a community that owns an activity stream.
type Organization struct {
	ID   int
	Name string
}

// Subcategory is an optional filter dimension within an organization.
type Subcategory struct {
	ID   int
	Name string
	Icon string
}

// FilterKey scopes a loaded page of entries. SubcategoryID is 0 when no
// subcategory filter is applied.
type FilterKey struct {
	OrgID         int
	SubcategoryID int
}

// IsZero reports whether no organization has been selected yet.
func (k FilterKey) IsZero() bool {
	return k.OrgID == 0
}
