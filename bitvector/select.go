package bitvector

// linearScanLimit is the bracket width, in large blocks, up to which the rank
// directory is scanned instead of binary searched.
const linearScanLimit = 10

// Select1 returns the position of the (x+1)-th one. ok is false when
// x >= Ones().
func (v *BitVector) Select1(x uint64) (pos uint64, ok bool) {
	if x >= v.ones {
		return 0, false
	}
	ranks := v.ranks.Slice()

	var begin, end uint64
	if table := v.select1.Slice(); len(table) > 0 {
		id := x / LBlock
		if x%LBlock == 0 {
			return uint64(table[id]), true
		}
		begin = uint64(table[id]) / LBlock
		end = (uint64(table[id+1]) + LBlock - 1) / LBlock
	} else {
		end = uint64(len(ranks)) - 1
	}

	if begin+linearScanLimit >= end {
		for x >= ranks[begin+1].Abs() {
			begin++
		}
	} else {
		for begin+1 < end {
			pivot := (begin + end) / 2
			if x < ranks[pivot].Abs() {
				end = pivot
			} else {
				begin = pivot
			}
		}
	}

	r := ranks[begin]
	var before [BlockRate]uint64
	for j := uint64(1); j < BlockRate; j++ {
		before[j] = r.RelFor(j)
	}
	j, rest := narrow(&before, x-r.Abs())
	block := begin*BlockRate + j
	return select64(v.blocks.At(int(block)), rest, block*SBlock), true
}

// Select0 returns the position of the (x+1)-th zero. ok is false when
// x >= Zeros().
func (v *BitVector) Select0(x uint64) (pos uint64, ok bool) {
	if x >= v.size-v.ones {
		return 0, false
	}
	ranks := v.ranks.Slice()
	zerosBefore := func(k uint64) uint64 {
		return k*LBlock - ranks[k].Abs()
	}

	var begin, end uint64
	if table := v.select0.Slice(); len(table) > 0 {
		id := x / LBlock
		if x%LBlock == 0 {
			return uint64(table[id]), true
		}
		begin = uint64(table[id]) / LBlock
		end = (uint64(table[id+1]) + LBlock - 1) / LBlock
	} else {
		end = uint64(len(ranks)) - 1
	}

	if begin+linearScanLimit >= end {
		for x >= zerosBefore(begin+1) {
			begin++
		}
	} else {
		for begin+1 < end {
			pivot := (begin + end) / 2
			if x < zerosBefore(pivot) {
				end = pivot
			} else {
				begin = pivot
			}
		}
	}

	r := ranks[begin]
	var before [BlockRate]uint64
	for j := uint64(1); j < BlockRate; j++ {
		before[j] = j*SBlock - r.RelFor(j)
	}
	j, rest := narrow(&before, x-zerosBefore(begin))
	block := begin*BlockRate + j
	return select64(^v.blocks.At(int(block)), rest, block*SBlock), true
}

// Select returns the position of the (x+1)-th bit equal to b.
func (v *BitVector) Select(b bool, x uint64) (uint64, bool) {
	if b {
		return v.Select1(x)
	}
	return v.Select0(x)
}

// narrow picks the sub-block holding the x-th counted bit of a large block.
// before[j] is the count preceding sub-block j. It returns the sub-block and
// the remaining offset inside it.
func narrow(before *[BlockRate]uint64, x uint64) (uint64, uint64) {
	var j uint64
	if x < before[4] {
		if x < before[2] {
			if x >= before[1] {
				j = 1
			}
		} else if x < before[3] {
			j = 2
		} else {
			j = 3
		}
	} else if x < before[6] {
		if x < before[5] {
			j = 4
		} else {
			j = 5
		}
	} else if x < before[7] {
		j = 6
	} else {
		j = 7
	}
	return j, x - before[j]
}
