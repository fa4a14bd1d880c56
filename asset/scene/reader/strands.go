package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/strands/asset"
	"github.com/achilleasa/strands/asset/compiler"
	"github.com/achilleasa/strands/asset/compiler/input"
	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/log"
	"github.com/achilleasa/strands/types"
)

// The strand reader parses a line-oriented text format:
//
//	# comment
//	call other.strands     include another strand file
//	g name                 start a new geometry
//	opacity 0.5            opacity of the current geometry
//	v x y z r              control point with its radius
//	s i1 i2 i3 i4 ...      strand using 3k+1 control points
//	camera_fov deg
//	camera_eye x y z
//	camera_look x y z
//	camera_up x y z
//
// Control point indices are 1-based and relative to the file that defines
// them. Negative indices count backwards from the last parsed point.
type strandSceneReader struct {
	logger log.Logger

	// The parsed scene.
	rawScene *input.Scene

	// Parsed control points.
	pointList []types.Vec4

	// An error stack that provides additional error information when
	// strand files include other files.
	errStack []string
}

// Create a new strand scene reader.
func newStrandReader() *strandSceneReader {
	return &strandSceneReader{
		logger:    log.New("strand scene reader"),
		rawScene:  input.NewScene(),
		pointList: make([]types.Vec4, 0),
		errStack:  make([]string, 0),
	}
}

// Read scene definition.
func (r *strandSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing strands from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d geometries in %d ms", len(r.rawScene.Geometries), time.Since(start).Nanoseconds()/1e6)

	return compiler.Compile(r.rawScene)
}

// Generate an error message that also includes any data in the error stack.
func (r *strandSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("%s", strings.Trim(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

// Push a frame to the error stack.
func (r *strandSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *strandSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Get the geometry that receives parsed strands, creating a default one if
// no geometry has been defined yet.
func (r *strandSceneReader) curGeometry() *input.Geometry {
	if len(r.rawScene.Geometries) == 0 {
		r.rawScene.Geometries = append(r.rawScene.Geometries, input.NewGeometry("default"))
	}
	return r.rawScene.Geometries[len(r.rawScene.Geometries)-1]
}

func (r *strandSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// Indices in included files are relative to the points they define.
	relPointOffset := len(r.pointList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "g":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "g"; expected 1 argument for geometry name; got %d`, len(lineTokens)-1)
			}
			r.verifyLastParsedGeometry()
			r.rawScene.Geometries = append(r.rawScene.Geometries, input.NewGeometry(lineTokens[1]))
		case "opacity":
			opacity, err := parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if opacity < 0 || opacity > 1 {
				return r.emitError(res.Path(), lineNum, "opacity must be in [0, 1]; got %f", opacity)
			}
			r.curGeometry().Opacity = opacity
		case "v":
			v, err := parseVec4(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if v[3] < 0 {
				return r.emitError(res.Path(), lineNum, "control point radius must not be negative; got %f", v[3])
			}
			r.pointList = append(r.pointList, v)
		case "s":
			points, err := r.parseStrand(lineTokens, relPointOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.curGeometry().AddStrand(points...)
		case "camera_fov":
			r.rawScene.Camera.FOV, err = parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_eye":
			r.rawScene.Camera.Eye, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_look":
			r.rawScene.Camera.Look, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_up":
			r.rawScene.Camera.Up, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		default:
			r.logger.Warningf(`[%s: %d] skipping unsupported directive "%s"`, res.Path(), lineNum, lineTokens[0])
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	r.verifyLastParsedGeometry()
	return nil
}

// Drop the last parsed geometry if it contains no strands.
func (r *strandSceneReader) verifyLastParsedGeometry() {
	lastIndex := len(r.rawScene.Geometries) - 1
	if lastIndex >= 0 && len(r.rawScene.Geometries[lastIndex].Strands) == 0 {
		r.logger.Warningf(`dropping geometry "%s" as it contains no strands`, r.rawScene.Geometries[lastIndex].Name)
		r.rawScene.Geometries = r.rawScene.Geometries[:lastIndex]
	}
}

// Parse a strand definition into its control points.
func (r *strandSceneReader) parseStrand(lineTokens []string, relPointOffset int) ([]types.Vec4, error) {
	count := len(lineTokens) - 1
	if count < 4 || (count-1)%3 != 0 {
		return nil, fmt.Errorf(`unsupported syntax for "s"; expected 3k+1 control points (k >= 1); got %d`, count)
	}

	points := make([]types.Vec4, count)
	for i, token := range lineTokens[1:] {
		index, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("could not parse control point index %q: %s", token, err)
		}

		var pointIndex int
		switch {
		case index > 0:
			pointIndex = relPointOffset + index - 1
		case index < 0:
			pointIndex = len(r.pointList) + index
		default:
			return nil, fmt.Errorf("control point index must not be zero")
		}

		if pointIndex < 0 || pointIndex >= len(r.pointList) {
			return nil, fmt.Errorf("control point index %d out of bounds", index)
		}
		points[i] = r.pointList[pointIndex]
	}

	return points, nil
}

// Parse a float32 argument.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	v := types.Vec3{}
	if err := parseFloats(lineTokens, v[:]); err != nil {
		return v, err
	}
	return v, nil
}

// Parse a Vec4 row.
func parseVec4(lineTokens []string) (types.Vec4, error) {
	v := types.Vec4{}
	if err := parseFloats(lineTokens, v[:]); err != nil {
		return v, err
	}
	return v, nil
}

func parseFloats(lineTokens []string, out []float32) error {
	if len(lineTokens) < len(out)+1 {
		return fmt.Errorf(`unsupported syntax for "%s"; expected %d arguments; got %d`, lineTokens[0], len(out), len(lineTokens)-1)
	}

	for tokIdx := range out {
		val, err := strconv.ParseFloat(lineTokens[tokIdx+1], 32)
		if err != nil {
			return err
		}
		out[tokIdx] = float32(val)
	}
	return nil
}
