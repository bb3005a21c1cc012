// Package recommend implements hybrid question recommendation: three
// independent signals fused into one ranking.
//
// Signals:
//
//   - Content-based filtering (CBF): cosine similarity between the user's
//     interest tag vector and each question's tag-indicator vector.
//   - Collaborative filtering (CF): questions touched by other users,
//     weighted by how similar those users' interest vectors are to the
//     target user's, excluding questions the target user already touched.
//   - Popularity: global engagement counters (upvotes, answers, views)
//     normalized against their maxima and blended 0.5/0.3/0.2.
//
// Fusion combines the signals as 0.5*cbf + 0.3*cf + 0.2*popularity, keeps
// only items above the score threshold, sorts, paginates, and hydrates full
// question records. The three scorers run concurrently over point-in-time
// reads; a failure in any one aborts the whole request rather than silently
// zeroing a signal.
//
// Basic usage:
//
//	weights, err := recommend.LoadCalibration("configs/recommend.calibration.json")
//	if err != nil {
//		slog.Warn("using default fusion weights", "error", err)
//	}
//	engine := recommend.NewEngine(profiles, contents, weights, recommend.EngineOptions{})
//	page, err := engine.Recommend(ctx, userID, 1, 20)
//
// Calibration:
//
// Fusion weights and the retention threshold default to the values above
// and can be overridden per deployment through a JSON calibration file
// loaded at startup. Changing the file requires a restart to take effect.
package recommend
