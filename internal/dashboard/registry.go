package dashboard

// Row is one table row as delivered by the REST API.
type Row = map[string]interface{}

type EntityKind int

const (
	KindUsers EntityKind = iota
	KindTransactions
	KindProducts
	KindSupportTickets
	KindSessions
	KindSubmissions
)

// Section describes how one entity type is listed and filtered: the
// endpoint key it is fetched under and the single designated field its
// dropdown filter matches against. An empty FilterField means the section
// has no filter.
type Section struct {
	Endpoint    string
	FilterField string
}

var sections = map[EntityKind]Section{
	KindUsers:          {Endpoint: "users", FilterField: "country"},
	KindTransactions:   {Endpoint: "transactions", FilterField: "payment_method"},
	KindProducts:       {Endpoint: "products", FilterField: "category"},
	KindSupportTickets: {Endpoint: "support-tickets", FilterField: "status"},
	KindSessions:       {Endpoint: "sessions", FilterField: "device"},
	KindSubmissions:    {Endpoint: "submissions"},
}

func (k EntityKind) Section() Section {
	return sections[k]
}

func (k EntityKind) String() string {
	return sections[k].Endpoint
}

// KindForEndpoint resolves an endpoint key back to its entity kind.
func KindForEndpoint(endpoint string) (EntityKind, bool) {
	for kind, s := range sections {
		if s.Endpoint == endpoint {
			return kind, true
		}
	}
	return 0, false
}
