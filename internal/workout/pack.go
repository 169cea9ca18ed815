package workout

// maxPackCycles bounds how many times Pack walks the candidate list when the exercises are short compared to the
// target duration.
const maxPackCycles = 2

// Pack lays out exercises in the given order, separated by rests of restSeconds, until targetSeconds is reached.
//
// The list is cycled at most maxPackCycles times. The plan never ends on a rest: when the next rest would reach
// the target, packing stops after the current exercise instead. An empty input yields an empty plan, which callers
// must treat as an error. restSeconds must be positive.
func Pack(ordered []Exercise, targetSeconds, restSeconds int) Plan {
	if len(ordered) == 0 || targetSeconds <= 0 {
		return nil
	}

	var (
		plan     Plan
		elapsed  int
		maxSteps = len(ordered) * maxPackCycles
	)
	for step := range maxSteps {
		exercise := &ordered[step%len(ordered)]
		plan = append(plan, PlanItem{
			Kind:            ItemKindExercise,
			DurationSeconds: exercise.DurationSeconds,
			Exercise:        exercise,
			Title:           exercise.Name,
		})
		elapsed += exercise.DurationSeconds

		if elapsed >= targetSeconds || elapsed+restSeconds >= targetSeconds || step == maxSteps-1 {
			break
		}
		plan = append(plan, PlanItem{
			Kind:            ItemKindRest,
			DurationSeconds: restSeconds,
			Exercise:        nil,
			Title:           "Rest",
		})
		elapsed += restSeconds
	}
	return plan
}

// trimToBudget drops the last exercise and the rest before it while the plan is longer than limitSeconds and more
// than one exercise remains.
func trimToBudget(plan Plan, limitSeconds int) Plan {
	for plan.TotalSeconds() > limitSeconds && plan.ExerciseCount() > 1 {
		plan = plan[:len(plan)-2]
	}
	return plan
}
