package calendar

import (
	"net/url"
)

// ProviderLinks holds prefilled "create event" URLs for the three supported
// calendar providers. Opening them is the caller's job; nothing here does I/O.
type ProviderLinks struct {
	Google  string `json:"google"`
	Outlook string `json:"outlook"`
	Yahoo   string `json:"yahoo"`
}

// Links builds the provider deep links for an event. Fields are URL-encoded
// and instants use compact UTC stamps. An unparsable start produces empty
// links rather than an error.
func Links(evt Event) ProviderLinks {
	start, end, ok := evt.StartEnd()
	if !ok {
		return ProviderLinks{}
	}
	st, et := compactUTC(start), compactUTC(end)

	google := url.Values{}
	google.Set("action", "TEMPLATE")
	google.Set("text", evt.Title)
	google.Set("dates", st+"/"+et)
	google.Set("details", evt.Description)
	google.Set("location", evt.Location)

	outlook := url.Values{}
	outlook.Set("path", "/calendar/action/compose")
	outlook.Set("rru", "addevent")
	outlook.Set("subject", evt.Title)
	outlook.Set("startdt", st)
	outlook.Set("enddt", et)
	outlook.Set("body", evt.Description)
	outlook.Set("location", evt.Location)

	yahoo := url.Values{}
	yahoo.Set("v", "60")
	yahoo.Set("title", evt.Title)
	yahoo.Set("st", st)
	yahoo.Set("et", et)
	yahoo.Set("desc", evt.Description)
	yahoo.Set("in_loc", evt.Location)

	return ProviderLinks{
		Google:  "https://calendar.google.com/calendar/render?" + google.Encode(),
		Outlook: "https://outlook.live.com/calendar/0/deeplink/compose?" + outlook.Encode(),
		Yahoo:   "https://calendar.yahoo.com/?" + yahoo.Encode(),
	}
}
