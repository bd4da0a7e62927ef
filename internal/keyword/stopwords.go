package keyword

// stopWords is the English stop-word list used to filter non-content
// tokens. Term specificity is measured against this list, not a corpus.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "him": true, "his": true, "how": true,
	"its": true, "may": true, "new": true, "now": true, "old": true,
	"see": true, "two": true, "way": true, "who": true, "did": true,
	"get": true, "them": true, "then": true, "they": true, "this": true,
	"that": true, "these": true, "those": true, "with": true, "will": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"would": true, "could": true, "should": true, "there": true, "their": true,
	"been": true, "being": true, "both": true, "each": true, "from": true,
	"into": true, "more": true, "most": true, "much": true, "must": true,
	"only": true, "other": true, "over": true, "same": true, "some": true,
	"such": true, "than": true, "through": true, "under": true, "until": true,
	"upon": true, "very": true, "were": true, "your": true, "also": true,
	"about": true, "after": true, "again": true, "against": true, "because": true,
	"before": true, "between": true, "does": true, "doing": true, "during": true,
	"further": true, "here": true, "itself": true, "just": true, "once": true,
	"said": true, "well": true, "made": true, "many": true, "like": true,
	"used": true, "uses": true, "using": true, "use": true, "refers": true,
	"called": true, "known": true, "process": true, "occurs": true,
}
