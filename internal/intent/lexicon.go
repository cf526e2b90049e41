package intent

import "github.com/sells-group/answer-engine/internal/model"

// attributePhrase maps a free-form phrase to a query attribute. Phrases are
// matched against the lowercased query text; first match in order wins, so
// more specific phrases come first.
type attributePhrase struct {
	phrase string
	attr   model.Attribute
}

// defaultLexicon covers the attribute phrasings seen in real company queries.
// Unmatched queries fall back to overview rather than failing.
var defaultLexicon = []attributePhrase{
	// founding
	{"when was", model.AttrFounding},
	{"founded", model.AttrFounding},
	{"founding", model.AttrFounding},
	{"established", model.AttrFounding},
	{"incorporated", model.AttrFounding},
	{"how old is", model.AttrFounding},
	{"year of inception", model.AttrFounding},

	// leadership (before location so "who is the ceo" is not eaten by "who is")
	{"ceo", model.AttrLeadership},
	{"chief executive", model.AttrLeadership},
	{"who runs", model.AttrLeadership},
	{"who leads", model.AttrLeadership},
	{"who founded", model.AttrLeadership},
	{"founder of", model.AttrLeadership},
	{"leadership", model.AttrLeadership},
	{"executives", model.AttrLeadership},

	// location
	{"headquarter", model.AttrLocation},
	{"where is", model.AttrLocation},
	{"where are", model.AttrLocation},
	{"located", model.AttrLocation},
	{"location", model.AttrLocation},
	{"based in", model.AttrLocation},
	{"based out of", model.AttrLocation},
	{"main office", model.AttrLocation},
	{"hq", model.AttrLocation},

	// financials
	{"revenue", model.AttrFinancials},
	{"earnings", model.AttrFinancials},
	{"market cap", model.AttrFinancials},
	{"valuation", model.AttrFinancials},
	{"how much is", model.AttrFinancials},
	{"worth", model.AttrFinancials},
	{"profit", model.AttrFinancials},
	{"financials", model.AttrFinancials},
	{"make money", model.AttrFinancials},

	// products
	{"products", model.AttrProducts},
	{"what does", model.AttrProducts},
	{"what do they sell", model.AttrProducts},
	{"services offered", model.AttrProducts},
	{"business model", model.AttrProducts},

	// customers
	{"customers", model.AttrCustomers},
	{"clients", model.AttrCustomers},
	{"who uses", model.AttrCustomers},
	{"target market", model.AttrCustomers},

	// news
	{"news", model.AttrNews},
	{"latest", model.AttrNews},
	{"recent", model.AttrNews},
	{"announcement", model.AttrNews},
	{"press release", model.AttrNews},
}
