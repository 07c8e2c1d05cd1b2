package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/lintang-b-s/simpleroute/pkg/preprocessor"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type osmWay struct {
	nodes     []int64
	roadClass pkg.RoadClass
	access    pkg.AccessType
	speed     float64
	oneWay    bool
}

// OsmParser. reads an openstreetmap extract (.osm.pbf, .osm, .osm.bz2) into raw graph records.
// every node referenced by an accepted way becomes a raw node, every pair of consecutive way nodes a raw edge.
type OsmParser struct {
	accessTypes pkg.AccessType
	wayNodeMap  map[int64]struct{}
	nodes       map[int64]preprocessor.RawNode
	ways        []osmWay
	logger      *zap.Logger
}

func NewOSMParser(accessTypes pkg.AccessType, logger *zap.Logger) *OsmParser {
	return &OsmParser{
		accessTypes: accessTypes,
		wayNodeMap:  make(map[int64]struct{}),
		nodes:       make(map[int64]preprocessor.RawNode),
		logger:      logger,
	}
}

// Parse. ways are scanned first, then only the nodes they reference are kept
func (p *OsmParser) Parse(ctx context.Context, mapFile string) ([]preprocessor.RawNode, []preprocessor.RawEdge, error) {
	if !p.accessTypes.Valid() {
		return nil, nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "invalid access mask %d", p.accessTypes)
	}

	countWays := 0
	err := p.scan(ctx, mapFile, true, func(o osm.Object) {
		way, ok := o.(*osm.Way)
		if !ok || !acceptOsmWay(way) {
			return
		}
		if (countWays+1)%50000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++
		p.processWay(way)
	})
	if err != nil {
		return nil, nil, err
	}

	countNodes := 0
	err = p.scan(ctx, mapFile, false, func(o osm.Object) {
		node, ok := o.(*osm.Node)
		if !ok {
			return
		}
		if _, used := p.wayNodeMap[int64(node.ID)]; !used {
			return
		}
		if (countNodes+1)%500000 == 0 {
			p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++
		p.nodes[int64(node.ID)] = preprocessor.RawNode{ID: int64(node.ID), Lat: node.Lat, Lon: node.Lon}
	})
	if err != nil {
		return nil, nil, err
	}

	rawNodes := make([]preprocessor.RawNode, 0, len(p.nodes))
	for _, n := range p.nodes {
		rawNodes = append(rawNodes, n)
	}
	rawEdges := p.buildEdges()

	p.logger.Info("openstreetmap parsed", zap.Int("ways", len(p.ways)), zap.Int("nodes", len(rawNodes)),
		zap.Int("edges", len(rawEdges)))
	return rawNodes, rawEdges, nil
}

func (p *OsmParser) processWay(way *osm.Way) {
	roadClass := pkg.GetRoadClass(way.Tags.Find("highway"))
	access := wayAccess(way, roadClass) & p.accessTypes
	if access == pkg.ACCESS_NONE {
		return
	}
	oneWay, reversed := wayDirection(way, roadClass)

	nodes := make([]int64, 0, len(way.Nodes))
	for _, wn := range way.Nodes {
		nodes = append(nodes, int64(wn.ID))
		p.wayNodeMap[int64(wn.ID)] = struct{}{}
	}
	if reversed {
		nodes = util.ReverseG(nodes)
	}

	p.ways = append(p.ways, osmWay{
		nodes:     nodes,
		roadClass: roadClass,
		access:    access,
		speed:     parseMaxSpeed(way.Tags.Find("maxspeed")),
		oneWay:    oneWay,
	})
}

// buildEdges. segments with a missing endpoint (clipped extracts) are skipped
func (p *OsmParser) buildEdges() []preprocessor.RawEdge {
	edges := make([]preprocessor.RawEdge, 0)
	skipped := 0
	for _, way := range p.ways {
		for i := 1; i < len(way.nodes); i++ {
			from, okFrom := p.nodes[way.nodes[i-1]]
			to, okTo := p.nodes[way.nodes[i]]
			if !okFrom || !okTo {
				skipped++
				continue
			}
			if from.ID == to.ID {
				continue
			}
			edges = append(edges, preprocessor.RawEdge{
				Source:    from.ID,
				Target:    to.ID,
				Distance:  geo.CalculateHaversineDistanceMeter(from.Lat, from.Lon, to.Lat, to.Lon),
				Speed:     way.speed,
				RoadClass: way.roadClass,
				Access:    way.access,
				OneWay:    way.oneWay,
			})
		}
	}
	if skipped > 0 {
		p.logger.Warn("way segments with missing nodes skipped", zap.Int("segments", skipped))
	}
	return edges
}

// scan. one pass over mapFile. the pbf decoder skips the object kinds not asked for.
func (p *OsmParser) scan(ctx context.Context, mapFile string, ways bool, handle func(o osm.Object)) error {
	f, err := os.Open(mapFile)
	if err != nil {
		return util.WrapErrorf(err, util.ErrNotFound, "open map file %s", mapFile)
	}
	defer f.Close()

	scanner, closer, err := newScanner(ctx, mapFile, f, ways)
	if err != nil {
		return err
	}
	defer closer()

	for scanner.Scan() {
		handle(scanner.Object())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", mapFile, err)
	}
	return nil
}

func newScanner(ctx context.Context, mapFile string, r io.Reader, ways bool) (osm.Scanner, func(), error) {
	switch {
	case strings.HasSuffix(mapFile, ".pbf"):
		// must not be parallel
		s := osmpbf.New(ctx, r, 1)
		s.SkipRelations = true
		s.SkipNodes = ways
		s.SkipWays = !ways
		return s, func() { s.Close() }, nil
	case strings.HasSuffix(mapFile, ".osm.bz2"):
		bz, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("open bzip2 stream %s: %w", mapFile, err)
		}
		s := osmxml.New(ctx, bz)
		return s, func() { s.Close(); bz.Close() }, nil
	case strings.HasSuffix(mapFile, ".osm"):
		s := osmxml.New(ctx, r)
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unsupported map file %s", mapFile)
	}
}
