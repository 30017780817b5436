package v1

type kvPair[T any] struct {
	key     []byte
	val     T
	existed bool
}

type revisionList[T any] struct {
	revs []*kvPair[T]
}

func newRevisionList[T any]() *revisionList[T] {
	return &revisionList[T]{
		revs: make([]*kvPair[T], 0),
	}
}

// set records the value that `key` had before a change.
// `existed` is false when the key was created by the change.
func (revlist *revisionList[T]) set(key []byte, val T, existed bool) {
	revlist.revs = append(revlist.revs, &kvPair[T]{
		key:     append([]byte(nil), key...),
		val:     val,
		existed: existed,
	})
}

func (revlist *revisionList[T]) snapshot() int {
	return len(revlist.revs)
}

// since returns the revisions recorded after `snap` in the recorded order.
func (revlist *revisionList[T]) since(snap int) []*kvPair[T] {
	if snap < 0 || snap > len(revlist.revs) {
		return nil
	}
	return revlist.revs[snap:]
}

func (revlist *revisionList[T]) revert(snap int) {
	if snap < 0 || snap > len(revlist.revs) {
		return
	}
	revlist.revs = revlist.revs[:snap]
}

func (revlist *revisionList[T]) reset() {
	revlist.revs = revlist.revs[:0]
}
