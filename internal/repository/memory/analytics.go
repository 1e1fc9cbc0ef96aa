package memory

import (
	"bytes"
	"context"
	"sort"
	"time"

	"fitcoach/api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// analyticsRepo mirrors the aggregation pipelines of the mongo backend.
type analyticsRepo struct{ s *Store }

func (r *analyticsRepo) window(traineeID primitive.ObjectID, since time.Time) []domain.ExerciseLog {
	since = domain.DateOf(since)
	logs := []domain.ExerciseLog{}
	for _, log := range r.s.logs {
		if log.TraineeID == traineeID && !log.SessionDate.Before(since) {
			logs = append(logs, log)
		}
	}
	return logs
}

func sortedDailyCounts(counts map[time.Time]int64) []domain.DailyCount {
	out := make([]domain.DailyCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, domain.DailyCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *analyticsRepo) DailyLogCounts(_ context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[time.Time]int64{}
	for _, log := range r.window(traineeID, since) {
		counts[log.SessionDate]++
	}
	return sortedDailyCounts(counts), nil
}

func (r *analyticsRepo) ExerciseTotals(_ context.Context, traineeID primitive.ObjectID, since time.Time, limit int) ([]domain.ExerciseTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type acc struct {
		total     domain.ExerciseTotal
		weightSum float64
		weighted  int
	}
	byExercise := map[primitive.ObjectID]*acc{}
	for _, log := range r.window(traineeID, since) {
		a, ok := byExercise[log.ExerciseID]
		if !ok {
			a = &acc{total: domain.ExerciseTotal{ExerciseID: log.ExerciseID}}
			byExercise[log.ExerciseID] = a
		}
		a.total.Count++
		a.total.TotalVolume += log.VolumeKg
		if log.CompletedWeightKg != nil {
			a.weightSum += *log.CompletedWeightKg
			a.weighted++
		}
	}

	totals := make([]domain.ExerciseTotal, 0, len(byExercise))
	for _, a := range byExercise {
		if a.weighted > 0 {
			a.total.AvgWeight = a.weightSum / float64(a.weighted)
		}
		totals = append(totals, a.total)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Count != totals[j].Count {
			return totals[i].Count > totals[j].Count
		}
		return totals[i].ExerciseID.Hex() < totals[j].ExerciseID.Hex()
	})
	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

func (r *analyticsRepo) DailyVolume(_ context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyVolume, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	volumes := map[time.Time]float64{}
	for _, log := range r.window(traineeID, since) {
		volumes[log.SessionDate] += log.VolumeKg
	}
	out := make([]domain.DailyVolume, 0, len(volumes))
	for date, volume := range volumes {
		out = append(out, domain.DailyVolume{Date: date, VolumeKg: volume})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// beats reports whether a is a better personal record candidate than b.
func beats(a, b domain.ExerciseLog) bool {
	if *a.CompletedWeightKg != *b.CompletedWeightKg {
		return *a.CompletedWeightKg > *b.CompletedWeightKg
	}
	if !a.SessionDate.Equal(b.SessionDate) {
		return a.SessionDate.After(b.SessionDate)
	}
	if !a.LoggedAt.Equal(b.LoggedAt) {
		return a.LoggedAt.After(b.LoggedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

func (r *analyticsRepo) PersonalRecords(_ context.Context, traineeID primitive.ObjectID) ([]domain.PersonalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	best := map[primitive.ObjectID]domain.ExerciseLog{}
	for _, log := range r.s.logs {
		if log.TraineeID != traineeID || log.CompletedWeightKg == nil {
			continue
		}
		if current, ok := best[log.ExerciseID]; !ok || beats(log, current) {
			best[log.ExerciseID] = log
		}
	}

	records := make([]domain.PersonalRecord, 0, len(best))
	for exerciseID, log := range best {
		pr := domain.PersonalRecord{
			ExerciseID:  exerciseID,
			MaxWeightKg: *log.CompletedWeightKg,
			AchievedOn:  log.SessionDate,
		}
		if log.CompletedSets != nil {
			pr.Sets = *log.CompletedSets
		}
		if log.CompletedReps != nil {
			pr.Reps = *log.CompletedReps
		}
		records = append(records, pr)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].MaxWeightKg != records[j].MaxWeightKg {
			return records[i].MaxWeightKg > records[j].MaxWeightKg
		}
		return records[i].ExerciseID.Hex() < records[j].ExerciseID.Hex()
	})
	return records, nil
}

func (r *analyticsRepo) Totals(_ context.Context, traineeID primitive.ObjectID) (domain.LogTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var totals domain.LogTotals
	for _, log := range r.s.logs {
		if log.TraineeID == traineeID {
			totals.Count++
			totals.VolumeKg += log.VolumeKg
		}
	}
	return totals, nil
}
