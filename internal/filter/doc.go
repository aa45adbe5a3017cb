// Package filter provides the numeric building blocks shared by the npr
// filters: float32 sample planes, Gaussian kernels that follow the OpenCV
// sizing rules, separable convolution with reflect-101 borders, Sobel
// gradients and RGB to luma conversion.
//
// All routines allocate their outputs; nothing here keeps state between
// calls.
package filter
