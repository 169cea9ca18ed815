package workout

// DefaultExercises is the minimal bodyweight catalog substituted when the real catalog cannot be loaded or is empty.
// It covers every difficulty so that the filter always finds something for a bodyweight user.
func DefaultExercises() []Exercise {
	return []Exercise{
		{
			ID:                   "bd4e12be-2782-5317-8849-68bc8396340a",
			Name:                 "Jumping Jacks",
			InstructionsMarkdown: "Jump your feet wide while raising your arms overhead, then return to standing.",
			MediaURL:             "",
			DurationSeconds:      45,
			Tags:                 []string{"equipment:bodyweight", "difficulty:beginner", "goal:cardio", "type:cardio"},
		},
		{
			ID:                   "cd587f98-9ebd-5750-ba50-c7610a5439fa",
			Name:                 "Bodyweight Squat",
			InstructionsMarkdown: "Sit your hips back and down until your thighs are parallel to the floor, then stand up.",
			MediaURL:             "",
			DurationSeconds:      45,
			Tags:                 []string{"equipment:bodyweight", "difficulty:beginner", "goal:strength", "type:strength"},
		},
		{
			ID:                   "8cb81553-6cbe-56df-abef-318b17fba608",
			Name:                 "Plank",
			InstructionsMarkdown: "Hold a straight line from head to heels on your forearms and toes.",
			MediaURL:             "",
			DurationSeconds:      30,
			Tags: []string{
				"equipment:bodyweight", "difficulty:beginner", "difficulty:intermediate", "goal:core", "type:core",
			},
		},
		{
			ID:                   "cbf2dc8a-3504-5f06-9a35-031a2173745a",
			Name:                 "Glute Bridge",
			InstructionsMarkdown: "Lie on your back with bent knees and lift your hips until your body forms a straight line.",
			MediaURL:             "",
			DurationSeconds:      40,
			Tags:                 []string{"equipment:bodyweight", "difficulty:beginner", "goal:strength", "type:strength"},
		},
		{
			ID:                   "0207e92f-311a-529f-a630-482fff5763fe",
			Name:                 "Push-up",
			InstructionsMarkdown: "Lower your chest to the floor with a straight body and press back up.",
			MediaURL:             "",
			DurationSeconds:      40,
			Tags:                 []string{"equipment:bodyweight", "difficulty:intermediate", "goal:strength", "type:strength"},
		},
		{
			ID:                   "569e6453-510c-5e47-b6a8-e2ccdda338cb",
			Name:                 "Burpee",
			InstructionsMarkdown: "Squat, kick your feet back to a plank, return and jump explosively.",
			MediaURL:             "",
			DurationSeconds:      40,
			Tags:                 []string{"equipment:bodyweight", "difficulty:advanced", "goal:cardio", "type:cardio"},
		},
	}
}
