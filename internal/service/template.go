package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RenderContext carries everything the subject/body vocabulary can
// reference for one time slot.
type RenderContext struct {
	TourTitle    string
	Date         string // YYYY-MM-DD
	Time         string
	PaxCount     int
	Staff        *StaffAssignment
	MeetingPoint string // resolved text, address preferred over name
	Vouchers     []VoucherInfo
	Bookings     []Booking

	// Extra values merged into the placeholder table, e.g.
	// services_list for consolidated bodies.
	Extra map[string]string
}

var (
	placeholderRe = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_.]*)\}\}`)

	// Blocks do not nest and match non-greedily across newlines.
	conditionalRes = map[string]*regexp.Regexp{
		"guide":     regexp.MustCompile(`(?s)\{\{#if_guide\}\}(.*?)\{\{/if_guide\}\}`),
		"escort":    regexp.MustCompile(`(?s)\{\{#if_escort\}\}(.*?)\{\{/if_escort\}\}`),
		"headphone": regexp.MustCompile(`(?s)\{\{#if_headphone\}\}(.*?)\{\{/if_headphone\}\}`),
	}
)

// RenderTemplate substitutes the fixed placeholder vocabulary and
// resolves the three conditional block pairs. Placeholders outside the
// vocabulary are left verbatim; stored production templates depend on
// both behaviors.
func RenderTemplate(tmpl string, ctx RenderContext) string {
	nonEmpty := map[string]bool{
		"guide":     ctx.Staff != nil && len(ctx.Staff.Guides) > 0,
		"escort":    ctx.Staff != nil && len(ctx.Staff.Escorts) > 0,
		"headphone": ctx.Staff != nil && len(ctx.Staff.Headphones) > 0,
	}
	for role, re := range conditionalRes {
		if nonEmpty[role] {
			tmpl = re.ReplaceAllString(tmpl, "$1")
		} else {
			tmpl = re.ReplaceAllString(tmpl, "")
		}
	}

	values := ctx.values()
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
}

func (ctx RenderContext) values() map[string]string {
	v := map[string]string{
		"tour_title":    ctx.TourTitle,
		"date":          FormatDate(ctx.Date),
		"time":          ShortTime(ctx.Time),
		"entry_time":    entryTimeValue(ctx.Vouchers),
		"pax_count":     strconv.Itoa(ctx.PaxCount),
		"pax_types":     paxTypesOf(ctx.Bookings),
		"ticket_types":  TicketTypes(ctx.Vouchers),
		"meeting_point": ctx.MeetingPoint,
	}

	var guides, escorts, headphones []Person
	if ctx.Staff != nil {
		guides = ctx.Staff.Guides
		escorts = ctx.Staff.Escorts
		headphones = ctx.Staff.Headphones
	}
	v["guide_name"] = joinNames(guides)
	v["guide_phone"] = joinPhones(guides)
	v["guide_list"] = joinNamePhones(guides)
	v["escort_name"] = joinNames(escorts)
	v["escort_phone"] = joinPhones(escorts)
	v["escort_list"] = joinNamePhones(escorts)
	v["headphone_name"] = joinNames(headphones)
	v["headphone_phone"] = joinPhones(headphones)
	v["headphone_list"] = joinNamePhones(headphones)

	for k, val := range ctx.Extra {
		v[k] = val
	}
	return v
}

// RenderServiceItem substitutes the service.* vocabulary against one
// single service entry; used to build the per-line text inside a
// consolidated email body.
func RenderServiceItem(tmpl string, ctx RenderContext) string {
	inner := ctx.values()
	values := make(map[string]string, len(inner))
	for k, val := range inner {
		values["service."+k] = val
	}
	values["service.title"] = ctx.TourTitle

	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
}

// FormatDate renders YYYY-MM-DD as dd/MM/yyyy; anything unparsable
// passes through.
func FormatDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("02/01/2006")
}

// entryTimeValue is the first voucher with a non-empty entry time,
// truncated to HH:MM.
func entryTimeValue(vouchers []VoucherInfo) string {
	for _, v := range vouchers {
		if v.EntryTime != "" {
			return ShortTime(v.EntryTime)
		}
	}
	return ""
}

func paxTypesOf(bookings []Booking) string {
	var all []Passenger
	for _, b := range bookings {
		all = append(all, b.Passengers...)
	}
	return PaxTypes(all)
}

// TicketTypes aggregates voucher tickets into a comma-joined
// "{count} {category}" string; vouchers without a category count as
// "Standard". Categories sort by first appearance.
func TicketTypes(vouchers []VoucherInfo) string {
	counts := map[string]int{}
	order := map[string]int{}
	for _, v := range vouchers {
		name := v.CategoryName
		if name == "" {
			name = "Standard"
		}
		if _, seen := counts[name]; !seen {
			order[name] = len(order)
		}
		counts[name] += v.TotalTickets
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return order[names[i]] < order[names[j]] })

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", counts[name], name))
	}
	return strings.Join(parts, ", ")
}

func joinNames(people []Person) string {
	parts := make([]string, 0, len(people))
	for _, p := range people {
		parts = append(parts, p.FullName())
	}
	return strings.Join(parts, ", ")
}

func joinPhones(people []Person) string {
	var parts []string
	for _, p := range people {
		if p.Phone != "" {
			parts = append(parts, p.Phone)
		}
	}
	return strings.Join(parts, ", ")
}

// joinNamePhones renders "Name Phone, Name Phone", omitting the phone
// when absent.
func joinNamePhones(people []Person) string {
	parts := make([]string, 0, len(people))
	for _, p := range people {
		entry := p.FullName()
		if p.Phone != "" {
			entry += " " + p.Phone
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, ", ")
}
