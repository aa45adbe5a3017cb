// Package npr provides non-photorealistic image filters.
//
// # Overview
//
// Every filter implements the Filter interface: it reads one or two 8-bit
// raster Buffers, writes its output slots, and is configured through a
// string-keyed Params map or a typed Config struct. Filters are stateful
// objects but each Update recomputes its result from scratch.
//
// Available filters:
//
//   - Gaussian: separable Gaussian blur
//   - Inversion: 255 - v per sample
//   - ACSP: adaptive clustering halftoning along a Hilbert curve
//   - CAH: contrast-aware error diffusion halftoning
//   - Retinex: multi-scale Retinex with color restoration
//   - Kang: edge tangent flow line drawing
//   - SBE: Stipple-by-Example rendering
//   - Measure: mean SSIM and PSNR between two images
//
// # Quick Start
//
//	src, err := npr.LoadBuffer("in.png")
//	if err != nil {
//		log.Fatal(err)
//	}
//	blur, _ := npr.New(npr.TypeGaussian, npr.Params{"Kernel_size": "5"})
//	if err := blur.Update(ctx, src); err != nil {
//		log.Fatal(err)
//	}
//	_ = blur.Output(0).SavePNG("out.png")
//
// # Channels
//
// Each input and output slot declares a channel count of 1 or 3. A
// 3-channel input feeding a 1-channel slot is converted with BT.601 luma;
// a 1-channel result feeding a 3-channel slot is broadcast. Other
// mismatches fail with ErrChannelMismatch.
//
// # Parameters
//
// Params maps use the key names persisted by editors. A map with
// KeyInit set to InitEditor selects the defaults, as do missing keys and
// the value "default". Invalid values return a *ParamError and leave the
// filter unchanged.
//
// # Errors
//
// Recoverable precondition failures (for example a non power-of-two image
// given to ACSP) wrap ErrPrecondition. The filter has already applied its
// fallback and logged a warning; Graph.Run continues past them.
//
// # Logging
//
// The package logs through log/slog and is silent by default. Use
// SetLogger for a package-wide logger or WithLogger for one filter.
package npr
