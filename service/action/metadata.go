package action

import "net/url"

// Parameter describes one user-supplied input of a parameterized action.
type Parameter struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// LinkedAction is a single action template whose href embeds placeholders
// for client-side substitution.
type LinkedAction struct {
	Label      string      `json:"label"`
	Href       string      `json:"href"`
	Parameters []Parameter `json:"parameters"`
}

// Links groups the actions offered by an endpoint.
type Links struct {
	Actions []LinkedAction `json:"actions"`
}

// Descriptor is the discovery document returned on GET. It is constructed
// per request from the request's own origin URL; there is no persisted state.
type Descriptor struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Label       string `json:"label"`
	Links       Links  `json:"links"`
}

// Metadata holds the static descriptor fields, resolved from configuration.
type Metadata struct {
	Title       string
	Description string
	Label       string
	IconURL     string // empty means derive from the request origin
}

// NewDescriptor builds the action descriptor for a "Send SOL" transfer. It is
// a pure function of the inbound URL and the static metadata: identical
// origins produce identical descriptors.
func NewDescriptor(requestURL *url.URL, md Metadata) Descriptor {
	origin := &url.URL{Scheme: requestURL.Scheme, Host: requestURL.Host}

	icon := md.IconURL
	if icon == "" {
		icon = origin.JoinPath("icon.png").String()
	}

	href := origin.JoinPath(requestURL.Path).String() + "?to={to}&amount={amount}"

	return Descriptor{
		Icon:        icon,
		Title:       md.Title,
		Description: md.Description,
		Label:       md.Label,
		Links: Links{
			Actions: []LinkedAction{
				{
					Label: md.Title,
					Href:  href,
					Parameters: []Parameter{
						{Name: "to", Label: "Recipient wallet address", Required: true},
						{Name: "amount", Label: "Amount of SOL to send", Required: true},
					},
				},
			},
		},
	}
}
