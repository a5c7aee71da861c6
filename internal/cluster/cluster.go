// Package cluster groups citations that are parallel reports of one case.
// Physical proximity in the source text is the primary signal; extracted
// name and year are a secondary signal used to join distant citations and to
// validate joins after the fact.
package cluster

import (
	"sort"

	"github.com/lexhound/lexhound/internal/match"
	"github.com/lexhound/lexhound/internal/model"
)

// Engine holds the clustering thresholds.
type Engine struct {
	proximity      int
	nameSimilarity float64
	maxSpan        int
}

func New(cfg model.ClusterConfig) *Engine {
	proximity := cfg.ProximityThreshold
	if proximity <= 0 {
		proximity = 200
	}
	similarity := cfg.NameSimilarity
	if similarity <= 0 {
		similarity = 0.92
	}
	multiple := cfg.MaxSpanMultiple
	if multiple <= 0 {
		multiple = 2
	}
	return &Engine{
		proximity:      proximity,
		nameSimilarity: similarity,
		maxSpan:        multiple * proximity,
	}
}

// group is a run of citation indexes; proximity groups are the atoms that
// later phases merge and split, so a proximity link is never broken.
type group struct {
	members []int
	byName  bool // Joined to its cluster by name+year, not proximity
}

// Cluster assigns every citation to exactly one cluster, sets ClusterID on
// the citations in place, and returns the cluster records. Citations must be
// ordered by start offset.
func (e *Engine) Cluster(citations []model.Citation) []model.Cluster {
	if len(citations) == 0 {
		return []model.Cluster{}
	}

	groups := e.proximityGroups(citations)
	clusters := e.mergeByName(citations, groups)
	clusters = e.validate(citations, clusters)

	sort.Slice(clusters, func(i, j int) bool {
		return citations[clusters[i][0].members[0]].Start < citations[clusters[j][0].members[0]].Start
	})

	records := make([]model.Cluster, len(clusters))
	for id, c := range clusters {
		var memberIDs []int
		for _, g := range c {
			for _, idx := range g.members {
				memberIDs = append(memberIDs, citations[idx].ID)
				citations[idx].ClusterID = id
			}
		}
		sort.Ints(memberIDs)
		name, year := displayIdentity(citations, c)
		records[id] = model.Cluster{
			ID:       id,
			CaseName: name,
			Year:     year,
			Members:  memberIDs,
		}
	}
	return records
}

// proximityGroups chains citations whose gap is within the threshold.
// Chaining stops when the group's total span would exceed the sanity bound,
// so a run of loosely spaced citations cannot snowball into one cluster.
func (e *Engine) proximityGroups(citations []model.Citation) []*group {
	var groups []*group
	cur := &group{members: []int{0}}
	groups = append(groups, cur)
	for i := 1; i < len(citations); i++ {
		prev := citations[cur.members[len(cur.members)-1]]
		first := citations[cur.members[0]]
		gap := citations[i].Start - prev.End
		span := citations[i].End - first.Start
		if gap <= e.proximity && span <= e.maxSpan {
			cur.members = append(cur.members, i)
			continue
		}
		cur = &group{members: []int{i}}
		groups = append(groups, cur)
	}
	return groups
}

// groupIdentity is a proximity group's extracted name and year, taken from
// its members' document-extracted data only.
func groupIdentity(citations []model.Citation, g *group) (name, year string) {
	for _, idx := range g.members {
		if n := citations[idx].ExtractedCaseName; len(n) > len(name) {
			name = n
		}
		if year == "" {
			year = citations[idx].ExtractedYear
		}
	}
	return name, year
}

// mergeByName joins non-proximate groups that share a case identity: name
// similarity at or above the threshold and the same year (or both years
// missing). Empty names never join anything.
func (e *Engine) mergeByName(citations []model.Citation, groups []*group) [][]*group {
	var clusters [][]*group
	for _, g := range groups {
		name, year := groupIdentity(citations, g)
		joined := false
		if name != "" {
			for ci, c := range clusters {
				headName, headYear := groupIdentity(citations, c[0])
				if headName == "" {
					continue
				}
				if match.Similarity(name, headName) >= e.nameSimilarity && yearsAgree(year, headYear) {
					g.byName = true
					clusters[ci] = append(c, g)
					joined = true
					break
				}
			}
		}
		if !joined {
			clusters = append(clusters, []*group{g})
		}
	}
	return clusters
}

func yearsAgree(a, b string) bool {
	return a == b
}

// validate re-scans each cluster and splits out name-joined groups whose
// identity no longer agrees with the cluster head. Transitive merges can
// pull in a group that matched an intermediate but not the head. Groups
// joined by proximity alone are never split: extraction is less reliable
// than adjacency.
func (e *Engine) validate(citations []model.Citation, clusters [][]*group) [][]*group {
	var out [][]*group
	for _, c := range clusters {
		keep := []*group{c[0]}
		var evicted []*group
		headName, headYear := groupIdentity(citations, c[0])
		for _, g := range c[1:] {
			if !g.byName {
				keep = append(keep, g)
				continue
			}
			name, year := groupIdentity(citations, g)
			if match.Similarity(name, headName) >= e.nameSimilarity && yearsAgree(year, headYear) {
				keep = append(keep, g)
			} else {
				evicted = append(evicted, g)
			}
		}
		out = append(out, keep)

		// Evicted groups re-cluster among themselves by name+year.
		evictStart := len(out)
		for _, g := range evicted {
			g.byName = false
			gn, gy := groupIdentity(citations, g)
			placed := false
			for i := evictStart; i < len(out); i++ {
				n, y := groupIdentity(citations, out[i][0])
				if n != "" && gn != "" && match.Similarity(gn, n) >= e.nameSimilarity && yearsAgree(gy, y) {
					g.byName = true
					out[i] = append(out[i], g)
					placed = true
					break
				}
			}
			if !placed {
				out = append(out, []*group{g})
			}
		}
	}
	return out
}

// displayIdentity selects the cluster's display name and year from extracted
// data only: the longest non-empty extracted name, earliest occurrence on
// ties. Canonical data is never used here; external sources disagree on name
// variants and mixing them with document text would mislead.
func displayIdentity(citations []model.Citation, c []*group) (string, string) {
	var indexes []int
	for _, g := range c {
		indexes = append(indexes, g.members...)
	}
	sort.Ints(indexes)

	name := ""
	year := ""
	for _, idx := range indexes {
		if n := citations[idx].ExtractedCaseName; len(n) > len(name) {
			name = n
		}
		if year == "" {
			year = citations[idx].ExtractedYear
		}
	}
	return name, year
}
