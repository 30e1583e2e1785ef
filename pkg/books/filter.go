package books

import (
	"strconv"
	"strings"

	"github.com/uptrace/bun"
)

// The search filter is an explicit predicate tree: leaves are single-column
// matches and groups combine children with AND/OR. Trees are compiled to a
// parameterized SQL fragment right before execution, which keeps the
// composition logic independent of clause assembly.

type matchOp int

const (
	// opContains is a case-insensitive substring match.
	opContains matchOp = iota
	// opPrefix is a case-insensitive starts-with match.
	opPrefix
	// opIn is a set membership test.
	opIn
)

type expr interface {
	appendSQL(sb *strings.Builder, args *[]interface{})
}

type leaf struct {
	column string
	op     matchOp
	value  interface{}
}

func (l leaf) appendSQL(sb *strings.Builder, args *[]interface{}) {
	switch l.op {
	case opContains:
		sb.WriteString("LOWER(")
		sb.WriteString(l.column)
		sb.WriteString(") LIKE ?")
		*args = append(*args, "%"+l.value.(string)+"%")
	case opPrefix:
		sb.WriteString("LOWER(")
		sb.WriteString(l.column)
		sb.WriteString(") LIKE ?")
		*args = append(*args, l.value.(string)+"%")
	case opIn:
		sb.WriteString(l.column)
		sb.WriteString(" IN (?)")
		*args = append(*args, bun.In(l.value))
	}
}

// allOf matches when every child matches.
type allOf []expr

func (g allOf) appendSQL(sb *strings.Builder, args *[]interface{}) {
	sb.WriteString("(")
	for i, child := range g {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		child.appendSQL(sb, args)
	}
	sb.WriteString(")")
}

// anyOf matches when at least one child matches.
type anyOf []expr

func (g anyOf) appendSQL(sb *strings.Builder, args *[]interface{}) {
	sb.WriteString("(")
	for i, child := range g {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		child.appendSQL(sb, args)
	}
	sb.WriteString(")")
}

func compileExpr(e expr) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, 4)
	e.appendSQL(&sb, &args)
	return sb.String(), args
}

// splitTerms splits a comma-separated parameter into trimmed, lowercased
// terms. Empty terms are dropped; an empty result means no constraint.
func splitTerms(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		term := strings.ToLower(strings.TrimSpace(part))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// parseIDTerms flattens repeated parameter values and comma lists into a
// de-duplicated set of integer ids. Unparseable pieces are silently dropped;
// they never fail the request.
func parseIDTerms(values []string) []int {
	seen := map[int]struct{}{}
	ids := []int{}
	for _, value := range values {
		for _, piece := range strings.Split(value, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(piece))
			if err != nil {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// phraseExpr builds the predicate for one phrase against a column. A single
// token is a plain substring match; multiple tokens must all match, in any
// order and position.
func phraseExpr(column, phrase string) expr {
	tokens := strings.Fields(phrase)
	if len(tokens) <= 1 {
		return leaf{column, opContains, phrase}
	}
	g := make(allOf, 0, len(tokens))
	for _, token := range tokens {
		g = append(g, leaf{column, opContains, token})
	}
	return g
}

// topLevelMediaTypes are the registered top-level MIME categories. A token
// naming one of these matches the category as a whole ("audio" means
// "audio/...") instead of matching anywhere in the string.
var topLevelMediaTypes = map[string]struct{}{
	"application": {},
	"audio":       {},
	"font":        {},
	"example":     {},
	"image":       {},
	"message":     {},
	"model":       {},
	"multipart":   {},
	"text":        {},
	"video":       {},
}

func mimeExpr(column, token string) expr {
	if _, ok := topLevelMediaTypes[token]; ok {
		return leaf{column, opPrefix, token + "/"}
	}
	return leaf{column, opContains, token}
}

// searchFilter holds one predicate tree per filterable dimension. base
// applies directly to book columns; the others are required constraints on a
// joined association. A nil tree means the dimension is unconstrained.
type searchFilter struct {
	base     expr
	author   expr
	language expr
	mime     expr
	topic    expr
}

func buildSearchFilter(opts SearchBooksOptions) searchFilter {
	f := searchFilter{}

	base := allOf{}
	if ids := parseIDTerms(opts.GutenbergIDs); len(ids) > 0 {
		base = append(base, leaf{"b.gutenberg_id", opIn, ids})
	}
	if e := titleExpr(opts.Title); e != nil {
		base = append(base, e)
	}
	if len(base) > 0 {
		f.base = base
	}

	if phrases := splitTerms(opts.Author); len(phrases) > 0 {
		g := make(anyOf, 0, len(phrases))
		for _, phrase := range phrases {
			g = append(g, phraseExpr("a.name", phrase))
		}
		f.author = g
	}

	if codes := splitTerms(opts.Language); len(codes) > 0 {
		f.language = leaf{"l.code", opIn, codes}
	}

	if tokens := splitTerms(opts.MimeType); len(tokens) > 0 {
		g := make(anyOf, 0, len(tokens))
		for _, token := range tokens {
			g = append(g, mimeExpr("f.mime_type", token))
		}
		f.mime = g
	}

	if terms := splitTerms(opts.Topic); len(terms) > 0 {
		g := make(anyOf, 0, 2*len(terms))
		for _, term := range terms {
			g = append(g, leaf{"s.name", opContains, term})
			g = append(g, leaf{"bs.name", opContains, term})
		}
		f.topic = g
	}

	return f
}

// titleExpr matches any of the comma-separated phrases against the title. A
// single phrase stays wrapped in a one-element conjunction so the compiled
// clause always has the same shape.
func titleExpr(raw string) expr {
	phrases := splitTerms(raw)
	switch len(phrases) {
	case 0:
		return nil
	case 1:
		return allOf{phraseExpr("b.title", phrases[0])}
	default:
		g := make(anyOf, 0, len(phrases))
		for _, phrase := range phrases {
			g = append(g, phraseExpr("b.title", phrase))
		}
		return g
	}
}

// apply attaches the association joins and all compiled predicates to q. It
// reports whether a to-many join was added, in which case the caller must
// de-duplicate rows by book identity. The topic paths are LEFT JOINs since a
// book may match through either path while having no rows on the other.
func (f searchFilter) apply(q *bun.SelectQuery) (*bun.SelectQuery, bool) {
	joined := false

	if f.author != nil {
		q = q.
			Join("JOIN books_book_authors AS ba ON ba.book_id = b.id").
			Join("JOIN books_author AS a ON a.id = ba.author_id")
		sqlStr, args := compileExpr(f.author)
		q = q.Where(sqlStr, args...)
		joined = true
	}
	if f.language != nil {
		q = q.
			Join("JOIN books_book_languages AS bl ON bl.book_id = b.id").
			Join("JOIN books_language AS l ON l.id = bl.language_id")
		sqlStr, args := compileExpr(f.language)
		q = q.Where(sqlStr, args...)
		joined = true
	}
	if f.mime != nil {
		q = q.Join("JOIN books_format AS f ON f.book_id = b.id")
		sqlStr, args := compileExpr(f.mime)
		q = q.Where(sqlStr, args...)
		joined = true
	}
	if f.topic != nil {
		q = q.
			Join("LEFT JOIN books_book_subjects AS bsj ON bsj.book_id = b.id").
			Join("LEFT JOIN books_subject AS s ON s.id = bsj.subject_id").
			Join("LEFT JOIN books_book_bookshelves AS bbs ON bbs.book_id = b.id").
			Join("LEFT JOIN books_bookshelf AS bs ON bs.id = bbs.bookshelf_id")
		sqlStr, args := compileExpr(f.topic)
		q = q.Where(sqlStr, args...)
		joined = true
	}
	if f.base != nil {
		sqlStr, args := compileExpr(f.base)
		q = q.Where(sqlStr, args...)
	}

	return q, joined
}

// relationFilter narrows a projected association to the rows that satisfy
// the active predicate for that association, mirroring how the filter
// excludes books. A nil predicate leaves the association untouched.
func relationFilter(e expr) func(*bun.SelectQuery) *bun.SelectQuery {
	return func(sq *bun.SelectQuery) *bun.SelectQuery {
		if e == nil {
			return sq
		}
		sqlStr, args := compileExpr(e)
		return sq.Where(sqlStr, args...)
	}
}
