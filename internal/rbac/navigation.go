package rbac

import "fmt"

// NavItem is a dashboard menu entry. An empty Permission means every member sees it.
type NavItem struct {
	Label      string     `json:"label"`
	Href       string     `json:"href"`
	Permission Permission `json:"permission,omitempty"`
}

// NavGroup is a labelled section of the club sidebar.
type NavGroup struct {
	Label string    `json:"label"`
	Items []NavItem `json:"items"`
}

var clubNavigation = []NavGroup{
	{Label: "Overview", Items: []NavItem{
		{Label: "Dashboard", Href: "/club"},
	}},
	{Label: "Analytics & Data", Items: []NavItem{
		{Label: "Live Operations", Href: "/club/analytics/live", Permission: PermViewAnalytics},
		{Label: "Event Insights", Href: "/club/analytics/events", Permission: PermViewAnalytics},
		{Label: "Host Performance", Href: "/club/analytics/hosts", Permission: PermViewAnalytics},
		{Label: "Full History", Href: "/club/analytics/history", Permission: PermViewFinancials},
	}},
	{Label: "Connections", Items: []NavItem{
		{Label: "Partner Requests", Href: "/club/connections/requests", Permission: PermManageEvents},
		{Label: "Active Partners", Href: "/club/connections/partners", Permission: PermManageEvents},
	}},
	{Label: "Event Management", Items: []NavItem{
		{Label: "Calendar", Href: "/club/calendar", Permission: PermViewGuestList},
		{Label: "Events", Href: "/club/events", Permission: PermManageEvents},
		{Label: "Table Management", Href: "/club/tables", Permission: PermManageTables},
		{Label: "Page Management", Href: "/club/page-management", Permission: PermManageSettings},
	}},
	{Label: "Operations", Items: []NavItem{
		{Label: "Gate & Security", Href: "/club/security", Permission: PermScanEntry},
		{Label: "Ops Registers", Href: "/club/registers", Permission: PermLogIncidents},
	}},
	{Label: "Administration", Items: []NavItem{
		{Label: "Staff Access", Href: "/club/staff", Permission: PermManageStaff},
		{Label: "Settings", Href: "/club/settings", Permission: PermManageSettings},
	}},
}

// Navigation returns a copy of the full club sidebar.
func Navigation() []NavGroup {
	return filterNavigation(func(NavItem) bool { return true })
}

// VisibleNavigation returns the sidebar entries role may see. Groups left empty
// are dropped. This only drives rendering; it is not an access boundary.
func VisibleNavigation(role Role) ([]NavGroup, error) {
	set, ok := grants[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return filterNavigation(func(item NavItem) bool {
		if item.Permission == "" {
			return true
		}
		_, granted := set[item.Permission]
		return granted
	}), nil
}

func filterNavigation(keep func(NavItem) bool) []NavGroup {
	out := make([]NavGroup, 0, len(clubNavigation))
	for _, group := range clubNavigation {
		items := make([]NavItem, 0, len(group.Items))
		for _, item := range group.Items {
			if keep(item) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, NavGroup{Label: group.Label, Items: items})
	}
	return out
}
