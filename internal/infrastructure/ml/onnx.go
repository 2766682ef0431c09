package ml

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

const defaultSharedLibrary = "libonnxruntime.so"

// ortEnv guards the process-wide runtime initialisation.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNXClassifier runs a binary classifier exported to ONNX. The graph takes
// one float32 [1, width] input and yields class probabilities [1, k]; the
// last class is taken as P(high risk).
type ONNXClassifier struct {
	session *ort.DynamicAdvancedSession
	width   int64
	classes int64
}

// NewONNXClassifier opens the graph named by p inside dir.
func NewONNXClassifier(dir string, p ONNXParams, width int) (*ONNXClassifier, error) {
	libPath := p.SharedLibrary
	if libPath == "" {
		libPath = defaultSharedLibrary
	}
	if !filepath.IsAbs(libPath) {
		libPath = filepath.Join(dir, libPath)
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: initialize runtime: %w", err)
	}

	modelPath := filepath.Join(dir, p.File)
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: read model info: %w", err)
	}
	input, err := pickTensor(inputs, p.Input)
	if err != nil {
		return nil, fmt.Errorf("onnx: input: %w", err)
	}
	output, err := pickOutput(outputs, p.Output)
	if err != nil {
		return nil, fmt.Errorf("onnx: output: %w", err)
	}
	if dims := input.Dimensions; len(dims) == 2 && dims[1] > 0 && dims[1] != int64(width) {
		return nil, fmt.Errorf("onnx: graph expects %d features, manifest lists %d", dims[1], width)
	}
	classes := int64(2)
	if dims := output.Dimensions; len(dims) == 2 && dims[1] > 0 {
		classes = dims[1]
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{input.Name}, []string{output.Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}
	return &ONNXClassifier{session: session, width: int64(width), classes: classes}, nil
}

func pickTensor(infos []ort.InputOutputInfo, name string) (ort.InputOutputInfo, error) {
	if len(infos) == 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("graph declares none")
	}
	if name == "" {
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("graph has no tensor %q", name)
}

// pickOutput selects the probability tensor. Without an explicit name it is
// the first float tensor with at least two classes in its last dimension,
// which skips the int64 label output classifier exports list first.
func pickOutput(infos []ort.InputOutputInfo, name string) (ort.InputOutputInfo, error) {
	if name != "" {
		return pickTensor(infos, name)
	}
	for _, info := range infos {
		dims := info.Dimensions
		if info.OrtValueType != ort.ONNXTypeTensor || info.DataType != ort.TensorElementDataTypeFloat || len(dims) == 0 {
			continue
		}
		if dims[len(dims)-1] >= 2 {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("graph has no float probability tensor; set onnx.output")
}

func (c *ONNXClassifier) PredictProba(_ context.Context, v model.FeatureVector) (float64, error) {
	if int64(v.Len()) != c.width {
		return 0, fmt.Errorf("onnx: %d features for width %d", v.Len(), c.width)
	}
	in, err := ort.NewTensor(ort.NewShape(1, c.width), v.Float32())
	if err != nil {
		return 0, fmt.Errorf("onnx: input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, c.classes))
	if err != nil {
		return 0, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer out.Destroy()

	if err := c.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return 0, fmt.Errorf("onnx: inference: %w", err)
	}
	probs := out.GetData()
	return float64(probs[len(probs)-1]), nil
}

// Close releases the session.
func (c *ONNXClassifier) Close() error {
	return c.session.Destroy()
}
