package view

import "dispatcherhub/internal/domain"

const badgeFallback = "bg-gray-100 text-gray-700 border-gray-300"

var loadBadges = map[domain.LoadStatus]string{
	domain.StatusBooked:    "bg-yellow-100 text-yellow-800 border-yellow-300",
	domain.StatusInTransit: "bg-blue-100 text-blue-800 border-blue-300",
	domain.StatusDelivered: "bg-green-100 text-green-800 border-green-300",
	domain.StatusInvoiced:  "bg-purple-100 text-purple-800 border-purple-300",
	domain.StatusPaid:      "bg-emerald-100 text-emerald-800 border-emerald-300",
}

var dispatchBadges = map[domain.DispatchStatus]string{
	domain.DispatchUnassigned: "bg-slate-100 text-slate-700",
	domain.DispatchInTransit:  "bg-blue-100 text-blue-700",
	domain.DispatchDelivered:  "bg-green-100 text-green-700",
}

// LoadBadgeClass returns the CSS classes for a load status badge.
func LoadBadgeClass(s domain.LoadStatus) string {
	if cls, ok := loadBadges[s]; ok {
		return cls
	}
	return badgeFallback
}

// DispatchBadgeClass returns the CSS classes for a dispatch status badge.
func DispatchBadgeClass(s domain.DispatchStatus) string {
	if cls, ok := dispatchBadges[s]; ok {
		return cls
	}
	return "bg-slate-100"
}

// BadgeLabel is the badge text; empty values read "unknown".
func BadgeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
