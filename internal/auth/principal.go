// Package auth resolves the authenticated customer and what they may do.
package auth

type Capability string

const (
	CapViewOrders Capability = "ViewOrders"
	CapEditOrders Capability = "EditOrders"
	CapViewStores Capability = "ViewStores"
	CapEditStores Capability = "EditStores"
)

const (
	RoleAdmin  = "Admin"
	RoleViewer = "Viewer"
)

// roleCaps maps roles onto capabilities. Viewer may open admin views but
// only Admin may commit changes.
var roleCaps = map[string][]Capability{
	RoleAdmin:  {CapViewOrders, CapEditOrders, CapViewStores, CapEditStores},
	RoleViewer: {CapViewOrders, CapViewStores},
}

// Principal is the authenticated customer, resolved once per request and
// passed explicitly into each workflow.
type Principal struct {
	CustomerID string
	Name       string
	Roles      []string
}

func (p Principal) Authenticated() bool { return p.CustomerID != "" }

func (p Principal) Can(c Capability) bool {
	for _, r := range p.Roles {
		for _, have := range roleCaps[r] {
			if have == c {
				return true
			}
		}
	}
	return false
}
