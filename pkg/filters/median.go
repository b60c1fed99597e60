package filters

import (
	"fmt"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// DefaultMedianSeed is the initial signature of a median list. Each window
// reset derives its PRNG seed from the running signature, so equal seeds give
// identical skip-list shapes.
const DefaultMedianSeed uint32 = 0xabacadab

const (
	medianRoot      = 256
	medianMaxLevel  = 8
	medianNodeCount = 257
)

type medianNode struct {
	next      [medianMaxLevel + 1]uint16
	count     uint32
	signature uint32
}

// medianList is a skip list over the 256 intensities. Nodes live in a fixed
// arena indexed by intensity, with the root sentinel at index 256. A node
// belongs to the current window only when its signature matches the list's,
// so reset never has to clear the arena.
type medianList struct {
	nodes     [medianNodeCount]medianNode
	level     int
	center    uint32
	seed      uint32
	signature uint32
}

func newMedianList(width int, seed uint32) *medianList {
	return &medianList{
		center:    uint32(width * width / 2),
		signature: seed,
	}
}

func (l *medianList) reset() {
	root := &l.nodes[medianRoot]
	l.level = 0
	for i := range root.next {
		root.next[i] = medianRoot
	}
	l.seed = l.signature
	l.signature++
	if l.signature == 0 {
		// every stale signature is reachable again after a wrap
		for i := range l.nodes {
			l.nodes[i].signature = 0
		}
		l.signature = 1
	}
}

func (l *medianList) insert(v uint8) {
	n := &l.nodes[v]
	if n.signature == l.signature {
		n.count++
		return
	}
	l.addNode(uint16(v))
}

func (l *medianList) addNode(color uint16) {
	var update [medianMaxLevel + 1]uint16
	node := &l.nodes[color]
	node.signature = l.signature
	node.count = 1

	search := uint16(medianRoot)
	for level := l.level; level >= 0; level-- {
		for l.nodes[search].next[level] < color {
			search = l.nodes[search].next[level]
		}
		update[level] = search
	}

	level := 0
	for {
		l.seed = l.seed*42893621 + 1
		if l.seed&0x300 != 0x300 {
			break
		}
		level++
	}
	if level > medianMaxLevel {
		level = medianMaxLevel
	}
	if level > l.level+2 {
		level = l.level + 2
	}
	for level > l.level {
		l.level++
		update[l.level] = medianRoot
	}
	for ; level >= 0; level-- {
		node.next[level] = l.nodes[update[level]].next[level]
		l.nodes[update[level]].next[level] = color
	}
}

// median walks level 0 until the running count passes the center rank.
func (l *medianList) median() uint8 {
	color := uint16(medianRoot)
	var count uint32
	for {
		color = l.nodes[color].next[0]
		if color == medianRoot {
			// empty window; cannot happen after a full set of inserts
			return 0
		}
		count += l.nodes[color].count
		if count > l.center {
			return uint8(color)
		}
	}
}

// MedianFilter replaces every sample of every channel with the median of its
// (2r+1)² neighborhood, reading past the edges through border replication.
// Radius 0 leaves b unchanged.
func MedianFilter(b *raster.Buffer, radius int) error {
	return MedianFilterSeed(b, radius, DefaultMedianSeed)
}

// MedianFilterSeed is MedianFilter with an explicit skip-list seed.
func MedianFilterSeed(b *raster.Buffer, radius int, seed uint32) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if radius < 0 {
		return fmt.Errorf("%w: median radius %d", raster.ErrInvalidParameter, radius)
	}
	if radius == 0 {
		return nil
	}
	ext, err := raster.ExpandBorder(b, radius)
	if err != nil {
		return err
	}
	width := 2*radius + 1
	c := b.C
	es := ext.Stride()
	raster.ParallelRange(b.H, 1, func(start, end int) {
		list := newMedianList(width, seed)
		for y := start; y < end; y++ {
			row := b.Row(y)
			for x := 0; x < b.W; x++ {
				for ch := 0; ch < c; ch++ {
					list.reset()
					for i := 0; i < width; i++ {
						src := ext.Pix[(y+i)*es+x*c+ch:]
						for j := 0; j < width; j++ {
							list.insert(src[j*c])
						}
					}
					row[x*c+ch] = list.median()
				}
			}
		}
	})
	return nil
}
