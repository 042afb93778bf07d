// Package storagetest holds the behaviour every storage.Storage
// implementation must share. Backends call Run from their own tests.
package storagetest

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ana is the fixture used throughout the suite.
var Ana = types.Student{Name: "Ana", Age: 20, Email: "a@x.com", Course: "CS"}

// Run executes the contract suite. newStore must return an empty store
// each time it is called.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Run("empty store lists nothing", func(t *testing.T) {
		s := newStore(t)

		students, err := s.ListStudents()
		require.NoError(t, err)
		assert.NotNil(t, students)
		assert.Len(t, students, 0)
	})

	t.Run("round trip", func(t *testing.T) {
		s := newStore(t)

		saved, err := s.SaveStudent(Ana)
		require.NoError(t, err)
		assert.Equal(t, int64(1), saved.ID)

		got, err := s.GetStudentByID(saved.ID)
		require.NoError(t, err)

		want := Ana
		want.ID = saved.ID
		assert.Equal(t, want, got)
	})

	t.Run("ids are monotonic and never reused", func(t *testing.T) {
		s := newStore(t)

		var ids []int64
		for i := 0; i < 5; i++ {
			saved, err := s.SaveStudent(Ana)
			require.NoError(t, err)
			ids = append(ids, saved.ID)

			// Interleave deletions, including of the newest record.
			if i%2 == 1 {
				removed, err := s.RemoveStudentByID(saved.ID)
				require.NoError(t, err)
				require.True(t, removed)
			}
		}
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)

		saved, err := s.SaveStudent(Ana)
		require.NoError(t, err)
		assert.Equal(t, int64(6), saved.ID)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		s := newStore(t)

		for _, name := range []string{"Ana", "Bruno", "Carla"} {
			st := Ana
			st.Name = name
			_, err := s.SaveStudent(st)
			require.NoError(t, err)
		}
		_, err := s.RemoveStudentByID(2)
		require.NoError(t, err)

		students, err := s.ListStudents()
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, "Ana", students[0].Name)
		assert.Equal(t, "Carla", students[1].Name)
	})

	t.Run("list returns a snapshot", func(t *testing.T) {
		s := newStore(t)

		_, err := s.SaveStudent(Ana)
		require.NoError(t, err)

		students, err := s.ListStudents()
		require.NoError(t, err)
		students[0].Name = "Mallory"
		students[0].ID = 99

		again, err := s.ListStudents()
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Equal(t, "Ana", again[0].Name)

		got, err := s.GetStudentByID(1)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Name)
	})

	t.Run("get unknown id is not found", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetStudentByID(999)
		assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
	})

	t.Run("remove is final", func(t *testing.T) {
		s := newStore(t)

		saved, err := s.SaveStudent(Ana)
		require.NoError(t, err)

		removed, err := s.RemoveStudentByID(saved.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		_, err = s.GetStudentByID(saved.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		students, err := s.ListStudents()
		require.NoError(t, err)
		assert.Empty(t, students)

		removed, err = s.RemoveStudentByID(saved.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("save with id replaces in place", func(t *testing.T) {
		s := newStore(t)

		first, err := s.SaveStudent(Ana)
		require.NoError(t, err)
		_, err = s.SaveStudent(types.Student{Name: "Bruno", Age: 30, Email: "b@x.com", Course: "Math"})
		require.NoError(t, err)

		first.Course = "Physics"
		updated, err := s.SaveStudent(first)
		require.NoError(t, err)
		assert.Equal(t, first, updated)

		students, err := s.ListStudents()
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, first, students[0])
		assert.Equal(t, "Bruno", students[1].Name)
	})

	t.Run("save with unknown id is not found", func(t *testing.T) {
		s := newStore(t)

		ghost := Ana
		ghost.ID = 42
		_, err := s.SaveStudent(ghost)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		students, err := s.ListStudents()
		require.NoError(t, err)
		assert.Empty(t, students)

		// The failed update must not consume an id.
		saved, err := s.SaveStudent(Ana)
		require.NoError(t, err)
		assert.Equal(t, int64(1), saved.ID)
	})

	t.Run("concurrent creates get distinct ids", func(t *testing.T) {
		s := newStore(t)

		const k = 50
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids []int64
		)
		for i := 0; i < k; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				saved, err := s.SaveStudent(Ana)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				ids = append(ids, saved.ID)
				mu.Unlock()
			}()
		}
		wg.Wait()

		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		want := make([]int64, k)
		for i := range want {
			want[i] = int64(i + 1)
		}
		assert.Equal(t, want, ids)

		students, err := s.ListStudents()
		require.NoError(t, err)
		assert.Len(t, students, k)
	})
}
