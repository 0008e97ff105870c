package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ResultsSource is the contract the refresh cycle consumes: fetch the
// normalized results for one "2006-01"-formatted month. UpstreamScraper is
// the production implementation; tests substitute their own.
type ResultsSource interface {
	FetchMonth(yearMonth string) ([]RawResult, error)
}

// UpstreamScraper fetches raw monthly results from the upstream HTTP API
// and normalizes them into rows ready for ingestion. The upstream feed is
// an external collaborator; this is the minimal client the background
// refresh depends on, with an HTML-table fallback for the legacy export
// format.
type UpstreamScraper struct {
	BaseURL string
	Client  *http.Client
}

// NewUpstreamScraper wires the scraper to baseURL using the shared
// connection-pooled client.
func NewUpstreamScraper(baseURL string) *UpstreamScraper {
	return &UpstreamScraper{BaseURL: baseURL, Client: SharedHTTPClient}
}

// RawResult is one normalized row fetched from the upstream feed, prior to
// insertion into the store.
type RawResult struct {
	DrawTypeName string
	DrawTypeCat  string
	Date         time.Time
	Winning      [5]int
	Machine      []int // empty when the machine set wasn't published
	RawWinning   string
	RawMachine   string
}

// FetchMonth retrieves and normalizes the results for yearMonth
// ("2006-01"-formatted). The primary path decodes the upstream's JSON
// payload; if the response isn't JSON (the documented legacy export
// format), it falls back to parsing an HTML results table.
func (u *UpstreamScraper) FetchMonth(yearMonth string) ([]RawResult, error) {
	if u == nil || u.BaseURL == "" {
		return nil, NewError(KindUnavailable, "upstream scraper not configured", nil)
	}

	url := fmt.Sprintf("%s/results/%s", strings.TrimRight(u.BaseURL, "/"), yearMonth)
	resp, err := u.Client.Get(url)
	if err != nil {
		return nil, NewError(KindUnavailable, "upstream fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewError(KindUnavailable, fmt.Sprintf("upstream returned %d", resp.StatusCode), nil)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "json") {
		var payload []jsonResultRow
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, NewError(KindUnavailable, "upstream JSON decode failed", err)
		}
		return normalizeJSONRows(payload), nil
	}

	return parseHTMLResultsTable(resp.Body)
}

// jsonResultRow mirrors the upstream API's documented JSON row shape.
type jsonResultRow struct {
	DrawType string `json:"drawType"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Winning  []int  `json:"winning"`
	Machine  []int  `json:"machine"`
}

func normalizeJSONRows(rows []jsonResultRow) []RawResult {
	out := make([]RawResult, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		var winning [5]int
		copy(winning[:], r.Winning)
		out = append(out, RawResult{
			DrawTypeName: r.DrawType,
			DrawTypeCat:  r.Category,
			Date:         date,
			Winning:      winning,
			Machine:      r.Machine,
			RawWinning:   joinInts(r.Winning),
			RawMachine:   joinInts(r.Machine),
		})
	}
	return out
}

// parseHTMLResultsTable walks an HTML results table via golang.org/x/net/html,
// the legacy export format: one row per draw, columns
// [drawType, date, winning numbers (space-separated), machine numbers].
func parseHTMLResultsTable(body io.Reader) ([]RawResult, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, NewError(KindUnavailable, "upstream HTML parse failed", err)
	}

	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, strings.TrimSpace(textContent(c)))
				}
			}
			if len(cells) >= 3 {
				rows = append(rows, cells)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	out := make([]RawResult, 0, len(rows))
	for _, cells := range rows {
		date, err := time.Parse("2006-01-02", cells[1])
		if err != nil {
			continue
		}
		winningNums := parseIntList(cells[2])
		if len(winningNums) != 5 {
			continue
		}
		var winning [5]int
		copy(winning[:], winningNums)

		var machine []int
		if len(cells) >= 4 {
			machine = parseIntList(cells[3])
		}

		out = append(out, RawResult{
			DrawTypeName: cells[0],
			Date:         date,
			Winning:      winning,
			Machine:      machine,
			RawWinning:   cells[2],
			RawMachine:   strings.Join(toStrSlice(machine), " "),
		})
	}
	return out, nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func parseIntList(s string) []int {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.Trim(f, ","))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func toStrSlice(nums []int) []string {
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = strconv.Itoa(n)
	}
	return out
}

func joinInts(nums []int) string {
	return strings.Join(toStrSlice(nums), " ")
}
