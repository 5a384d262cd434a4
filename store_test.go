package lobbyqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Store_JoinAndLeave(t *testing.T) {
	store := NewStore()

	p := &Participant{ID: "p1", DisplayName: "Player1"}
	assert.Nil(t, store.Join("guild-1", SizeClass_5P, p))
	assert.Equal(t, ErrAlreadyQueued, store.Join("guild-1", SizeClass_5P, p))
	assert.Nil(t, store.Join("guild-1", SizeClass_9P, p))

	err := store.Join("guild-1", "4p", p)
	assert.Equal(t, ErrUnknownSizeClass, err)

	left, err := store.Leave("guild-1", SizeClass_5P, "p1")
	assert.Nil(t, err)
	assert.Equal(t, []string{SizeClass_5P}, left)

	left, err = store.Leave("guild-1", SizeClass_All, "p1")
	assert.Nil(t, err)
	assert.Equal(t, []string{SizeClass_9P}, left)

	_, err = store.Leave("guild-1", SizeClass_All, "p1")
	assert.Equal(t, ErrNotQueued, err)

	assert.ElementsMatch(t, []string{"guild-1"}, store.CommunityIDs())
}

func Test_Store_RemoveIsIdempotent(t *testing.T) {
	store := NewStore()

	assert.Nil(t, store.Join("guild-1", SizeClass_5P, &Participant{ID: "p1"}))
	store.Remove("guild-1", SizeClass_5P, "p1")
	store.Remove("guild-1", SizeClass_5P, "p1")

	pool, err := store.Pool("guild-1", SizeClass_5P)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(pool.Members))
}

func Test_Store_Rounds(t *testing.T) {
	store := NewStore()

	_, ok := store.Round("guild-1", SizeClass_5P)
	assert.False(t, ok)

	round := &ConfirmationRound{ID: "r1", CommunityID: "guild-1", SizeClass: SizeClass_5P}
	store.SetRound(round)

	got, ok := store.Round("guild-1", SizeClass_5P)
	assert.True(t, ok)
	assert.Equal(t, "r1", got.ID)

	// keys are scoped per size class
	_, ok = store.Round("guild-1", SizeClass_6P)
	assert.False(t, ok)

	assert.Equal(t, 1, len(store.ActiveRounds()))

	store.DeleteRound("guild-1", SizeClass_5P)
	_, ok = store.Round("guild-1", SizeClass_5P)
	assert.False(t, ok)
}

func Test_Pool_SnapshotFull(t *testing.T) {
	pool := &Pool{RequiredSize: 5}
	for i := 0; i < 4; i++ {
		pool.Members = append(pool.Members, &Participant{ID: string(rune('a' + i))})
	}
	assert.Nil(t, pool.SnapshotFull())

	pool.Members = append(pool.Members, &Participant{ID: "e"}, &Participant{ID: "f"})
	snapshot := pool.SnapshotFull()
	assert.Equal(t, 5, len(snapshot))
	assert.Equal(t, "a", snapshot[0].ID)
	assert.Equal(t, "e", snapshot[4].ID)
}

func Test_Pool_MemberIDs(t *testing.T) {
	pool := &Pool{RequiredSize: 5}
	assert.Empty(t, pool.MemberIDs())

	pool.Members = append(pool.Members, &Participant{ID: "a"}, &Participant{ID: "b"})
	assert.Equal(t, []string{"a", "b"}, pool.MemberIDs())
}
