package index

// Term holds the dictionary metadata for one normalised vocabulary entry.
// PostingsOffset is only meaningful once the postings file has been
// written for the same build.
type Term struct {
	Text              string
	DocumentFrequency int
	PostingsOffset    int64
}

// Posting records one term occurrence: the document it appears in and
// how many times it occurs there.
type Posting struct {
	DocID         int32
	TermFrequency int32
}

type PostingList []Posting

// TermEntry pairs a term with its full postings run, the unit of layout
// in the postings file.
type TermEntry struct {
	Term     string
	Postings PostingList
}

// Lexicon maps normalised term text to its dictionary metadata.
type Lexicon map[string]*Term

// Stats summarises one corpus build.
type Stats struct {
	DocumentCount  int
	VocabularySize int
	CollectionSize int
}
