// Package split partitions aligned examples into train, dev and test sets so
// that each set receives roughly the requested share of entities.
package split

import (
	"errors"
	"fmt"
	"math/rand"

	"condition-ner/internal/core/types"
)

const DefaultSeed int64 = 27

var (
	ErrInvalidSplit = errors.New("invalid split percentages")
	ErrNoEntities   = errors.New("examples contain no entities")
)

type Percentages struct {
	Train int
	Dev   int
	Test  int
}

func (p Percentages) Validate() error {
	for _, v := range []int{p.Train, p.Dev, p.Test} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %d is not between 0 and 100", ErrInvalidSplit, v)
		}
	}
	if sum := p.Train + p.Dev + p.Test; sum != 100 {
		return fmt.Errorf("%w: percentages sum to %d", ErrInvalidSplit, sum)
	}
	return nil
}

type SetStats struct {
	Docs     int
	Entities int
	// Percent is the achieved share of all entities, truncated.
	Percent int
}

type Stats struct {
	Train SetStats
	Dev   SetStats
	Test  SetStats
}

type Result struct {
	Train []*types.Doc
	Dev   []*types.Doc
	Test  []*types.Doc
	Stats Stats
}

// Split shuffles docs with seed and walks them once: test is filled while its
// running entity ratio is below the test target, then dev likewise, and the
// rest go to train. Ratios are checked before adding, so a set may overshoot
// its target by one example. The input slice is not modified.
func Split(docs []*types.Doc, pct Percentages, seed int64) (Result, error) {
	if err := pct.Validate(); err != nil {
		return Result{}, err
	}

	total := 0
	for _, doc := range docs {
		total += len(doc.Entities)
	}
	if total == 0 {
		return Result{}, ErrNoEntities
	}

	shuffled := make([]*types.Doc, len(docs))
	copy(shuffled, docs)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	devRatio := float64(pct.Dev) / 100
	testRatio := float64(pct.Test) / 100
	curTrain, curDev, curTest := -1.0, -1.0, -1.0

	var res Result
	trainEnts, devEnts, testEnts := 0, 0, 0
	for _, doc := range shuffled {
		n := len(doc.Entities)
		switch {
		case curTest < testRatio:
			res.Test = append(res.Test, doc)
			testEnts += n
			curTest = float64(testEnts) / float64(total)
		case curDev < devRatio:
			res.Dev = append(res.Dev, doc)
			devEnts += n
			curDev = float64(devEnts) / float64(total)
		default:
			res.Train = append(res.Train, doc)
			trainEnts += n
			curTrain = float64(trainEnts) / float64(total)
		}
	}

	res.Stats = Stats{
		Train: SetStats{Docs: len(res.Train), Entities: trainEnts, Percent: percent(curTrain)},
		Dev:   SetStats{Docs: len(res.Dev), Entities: devEnts, Percent: percent(curDev)},
		Test:  SetStats{Docs: len(res.Test), Entities: testEnts, Percent: percent(curTest)},
	}
	return res, nil
}

// percent reports an untouched set (ratio still -1) as 0.
func percent(ratio float64) int {
	return int(max(ratio, 0) * 100)
}
