// Package cluster groups ticket embeddings into candidate-intent clusters
// using single-linkage clustering over a similarity graph. Single linkage is
// intentional: near-duplicate tickets chain transitively without a fixed
// cluster count, which suits short noisy support text.
package cluster

import (
	"sort"

	"intent-miner/types"
	"intent-miner/vectors"
)

// Options are the clustering thresholds. Zero values fall back to defaults.
type Options struct {
	// EdgePrefilter drops pairs below this similarity before sorting; it only
	// bounds the candidate edge set, it is not the merge decision.
	EdgePrefilter float64
	// MergeThreshold is the minimum similarity for two tickets to be unioned.
	MergeThreshold float64
	// MinClusterSize is the smallest group emitted as a cluster; smaller
	// groups are noise.
	MinClusterSize int
}

func (o Options) withDefaults() Options {
	if o.EdgePrefilter <= 0 {
		o.EdgePrefilter = 0.5
	}
	if o.MergeThreshold <= 0 {
		o.MergeThreshold = 0.65
	}
	if o.MinClusterSize <= 0 {
		o.MinClusterSize = 5
	}
	return o
}

// Result holds the clusters and the indices that did not make it into one.
type Result struct {
	Clusters []types.Cluster
	Noise    []int
}

type edge struct {
	a, b int
	sim  float64
}

// Run clusters the given vectors. Entries with a nil vector (failed
// embeddings) are reported as noise and never compared. The grouping is fully
// deterministic for fixed inputs and thresholds: union is idempotent and
// order-independent once every edge above the merge threshold is processed,
// so sort ties cannot change the final membership.
//
// Pairwise similarity is O(n²); the caller caps input size.
func Run(vecs [][]float32, opts Options) (Result, error) {
	opts = opts.withDefaults()
	n := len(vecs)
	if n == 0 {
		return Result{}, nil
	}

	valid := make([]int, 0, n)
	var noise []int
	for i, v := range vecs {
		if v == nil {
			noise = append(noise, i)
			continue
		}
		valid = append(valid, i)
	}

	edges := make([]edge, 0, len(valid))
	for ai := 0; ai < len(valid); ai++ {
		for bi := ai + 1; bi < len(valid); bi++ {
			a, b := valid[ai], valid[bi]
			sim, err := vectors.Cosine(vecs[a], vecs[b])
			if err != nil {
				return Result{}, err
			}
			if sim > opts.EdgePrefilter {
				edges = append(edges, edge{a: a, b: b, sim: sim})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].sim > edges[j].sim })

	uf := newUnionFind(n)
	for _, e := range edges {
		if e.sim < opts.MergeThreshold {
			break // edges are sorted descending, nothing below merges
		}
		uf.union(e.a, e.b)
	}

	groups := make(map[int][]int)
	for _, i := range valid {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	// Roots iterate in map order; sort by smallest member for stable IDs.
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return groups[roots[i]][0] < groups[roots[j]][0] })

	result := Result{}
	clusterID := 0
	for _, root := range roots {
		members := groups[root]
		if len(members) < opts.MinClusterSize {
			result.Noise = append(result.Noise, members...)
			continue
		}
		sort.Ints(members)
		memberVecs := make([][]float32, len(members))
		for i, m := range members {
			memberVecs[i] = vecs[m]
		}
		centroid, err := vectors.Centroid(memberVecs)
		if err != nil {
			return Result{}, err
		}
		result.Clusters = append(result.Clusters, types.Cluster{
			ID:       clusterID,
			Members:  members,
			Centroid: centroid,
		})
		clusterID++
	}

	result.Noise = append(result.Noise, noise...)
	sort.Ints(result.Noise)
	return result, nil
}
