package graph

import "math"

const networkRadius = 150.0

// NetworkNode is a passage in the corpus-wide network overview.
type NetworkNode struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Passage       string  `json:"passage"`
	Author        string  `json:"author"`
	Work          string  `json:"work"`
	DateNotBefore int     `json:"dateNotBefore"`
	DateNotAfter  int     `json:"dateNotAfter"`
	Century       string  `json:"century"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

type NetworkLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Network is every passage with every resolvable source link, keyed by
// jad_id.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Links []NetworkLink `json:"links"`
}

// BuildNetwork lays all passages of repo out on a circle and links each one
// to the sources it names. Unresolvable sources are skipped.
func BuildNetwork(repo *Repository) *Network {
	passages := repo.All()
	net := &Network{
		Nodes: make([]NetworkNode, 0, len(passages)),
		Links: []NetworkLink{},
	}

	for i, p := range passages {
		work := p.FirstWork()
		author := "Unknown Author"
		if len(work.Author) > 0 && work.Author[0].DisplayName() != "" {
			author = work.Author[0].DisplayName()
		}
		title := work.DisplayTitle()
		if title == "" {
			title = "Unknown Work"
		}
		var notBefore, notAfter int
		if len(work.Date) > 0 {
			notBefore = int(work.Date[0].NotBefore)
			notAfter = int(work.Date[0].NotAfter)
		}
		angle := float64(i) * 2 * math.Pi / float64(len(passages))

		net.Nodes = append(net.Nodes, NetworkNode{
			ID:            p.JadID,
			Name:          author + ": " + title,
			Passage:       string(p.Passage),
			Author:        author,
			Work:          title,
			DateNotBefore: notBefore,
			DateNotAfter:  notAfter,
			Century:       CenturyBucket(notBefore),
			X:             math.Cos(angle)*networkRadius + networkRadius,
			Y:             math.Sin(angle)*networkRadius + networkRadius,
		})
	}

	for _, p := range passages {
		for _, ref := range p.SourcePassages {
			src, ok := repo.Get(ref.ID)
			if !ok {
				continue
			}
			net.Links = append(net.Links, NetworkLink{Source: src.JadID, Target: p.JadID})
		}
	}
	return net
}

// CenturyBucket groups a year into the colour bands of the network view.
// Unknown years (0) fall into the earliest band.
func CenturyBucket(year int) string {
	switch {
	case year < 600:
		return "pre 600"
	case year < 700:
		return "7th c."
	case year < 800:
		return "8th c."
	case year < 900:
		return "9th c."
	case year < 1000:
		return "10th c."
	case year < 1100:
		return "11th c."
	case year < 1200:
		return "12th c."
	case year < 1300:
		return "13th c."
	default:
		return "after 1300"
	}
}
