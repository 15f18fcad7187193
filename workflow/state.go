package workflow

// Patch is a single stage's contribution to OverallState. Nil pointer
// fields leave the corresponding state field untouched; Errors always
// concatenate; a zero Status means no status change.
type Patch struct {
	UserPrompt          *string
	RequestedModalities []Modality

	EnhancedPrompt *string
	MainStatement  *string

	AudioPath *string
	ImagePath *string
	VideoPath *string

	Description *string
	Hashtags    []string

	Status Status
	Errors []string
}

// Empty reports whether applying p would leave the state unchanged. Skipped
// stages return an empty patch, which is deliberately distinct from a failed
// one.
func (p Patch) Empty() bool {
	return p.UserPrompt == nil &&
		len(p.RequestedModalities) == 0 &&
		p.EnhancedPrompt == nil &&
		p.MainStatement == nil &&
		p.AudioPath == nil &&
		p.ImagePath == nil &&
		p.VideoPath == nil &&
		p.Description == nil &&
		len(p.Hashtags) == 0 &&
		p.Status == "" &&
		len(p.Errors) == 0
}

// Apply merges p into s following the cross-stage merge rules: asset paths
// are never cleared once set, Errors are append-only, and a terminal Status
// is never regressed by a later write.
func (s *OverallState) Apply(p Patch) {
	if p.UserPrompt != nil {
		s.UserPrompt = *p.UserPrompt
	}
	if len(p.RequestedModalities) > 0 {
		s.RequestedModalities = p.RequestedModalities
	}
	if p.EnhancedPrompt != nil {
		s.EnhancedPrompt = *p.EnhancedPrompt
	}
	if p.MainStatement != nil {
		s.MainStatement = *p.MainStatement
	}
	if p.AudioPath != nil && *p.AudioPath != "" {
		s.AudioPath = *p.AudioPath
	}
	if p.ImagePath != nil && *p.ImagePath != "" {
		s.ImagePath = *p.ImagePath
	}
	if p.VideoPath != nil && *p.VideoPath != "" {
		s.VideoPath = *p.VideoPath
	}
	if p.Description != nil && s.Description == "" {
		s.Description = *p.Description
	}
	if len(p.Hashtags) > 0 && len(s.Hashtags) == 0 {
		s.Hashtags = p.Hashtags
	}
	if p.Status != "" {
		s.Status = mergeStatus(s.Status, p.Status)
	}
	s.Errors = append(s.Errors, p.Errors...)
}

// MergePatches folds concurrent branch patches into one, concatenating
// Errors in argument order. A naive last-write-wins merge would silently
// drop the earlier branch's errors, so branch joins must go through here.
func MergePatches(patches ...Patch) Patch {
	var merged Patch
	for _, p := range patches {
		if p.UserPrompt != nil {
			merged.UserPrompt = p.UserPrompt
		}
		if len(p.RequestedModalities) > 0 {
			merged.RequestedModalities = p.RequestedModalities
		}
		if p.EnhancedPrompt != nil {
			merged.EnhancedPrompt = p.EnhancedPrompt
		}
		if p.MainStatement != nil {
			merged.MainStatement = p.MainStatement
		}
		if p.AudioPath != nil {
			merged.AudioPath = p.AudioPath
		}
		if p.ImagePath != nil {
			merged.ImagePath = p.ImagePath
		}
		if p.VideoPath != nil {
			merged.VideoPath = p.VideoPath
		}
		if p.Description != nil {
			merged.Description = p.Description
		}
		if len(p.Hashtags) > 0 {
			merged.Hashtags = p.Hashtags
		}
		if p.Status != "" {
			merged.Status = mergeStatus(merged.Status, p.Status)
		}
		merged.Errors = append(merged.Errors, p.Errors...)
	}
	return merged
}

func mergeStatus(cur, next Status) Status {
	if cur.Terminal() {
		return cur
	}
	return next
}
