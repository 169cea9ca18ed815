package workout

// classifiedExercise pairs an exercise with its facets so that tags are parsed exactly once per request.
type classifiedExercise struct {
	exercise Exercise
	facets   Facets
}

func classifyAll(exercises []Exercise) []classifiedExercise {
	classified := make([]classifiedExercise, len(exercises))
	for i, e := range exercises {
		classified[i] = classifiedExercise{exercise: e, facets: Classify(e)}
	}
	return classified
}

// Filter keeps the exercises that can be performed with the user's equipment and whose difficulty does not exceed
// the user's ceiling. The goal is not used for filtering. An empty result is valid.
func Filter(exercises []Exercise, prefs Preferences) []Exercise {
	return exercisesOf(filterClassified(classifyAll(exercises), prefs.Normalized().Equipment, prefs.Difficulty))
}

func filterClassified(classified []classifiedExercise, owned []Equipment, ceiling Difficulty) []classifiedExercise {
	var eligible []classifiedExercise
	for _, c := range classified {
		if c.facets.UsableWith(owned) && c.facets.WithinCeiling(ceiling) {
			eligible = append(eligible, c)
		}
	}
	return eligible
}

func exercisesOf(classified []classifiedExercise) []Exercise {
	exercises := make([]Exercise, len(classified))
	for i, c := range classified {
		exercises[i] = c.exercise
	}
	return exercises
}
