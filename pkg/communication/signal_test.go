package communication

import (
	"errors"
	"testing"

	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

func testPackages(t *testing.T) (*abstraction.Package, *abstraction.Package) {
	t.Helper()
	model := elemgraph.NewModel()
	netPkg, err := abstraction.CreatePackage(model, "Network")
	if err != nil {
		t.Fatalf("CreatePackage failed: %v", err)
	}
	sysPkg, err := abstraction.CreatePackage(model, "System")
	if err != nil {
		t.Fatalf("CreatePackage failed: %v", err)
	}
	return netPkg, sysPkg
}

func TestCreateSignal(t *testing.T) {
	netPkg, sysPkg := testPackages(t)

	signal, err := CreateSignal("EngineSpeed", 16, netPkg, sysPkg)
	if err != nil {
		t.Fatalf("CreateSignal failed: %v", err)
	}

	name, err := signal.Name()
	if err != nil || name != "EngineSpeed" {
		t.Errorf("Name() = %q, %v, want EngineSpeed", name, err)
	}
	bitLength, ok := signal.BitLength()
	if !ok || bitLength != 16 {
		t.Errorf("BitLength() = %d, %v, want 16, true", bitLength, ok)
	}

	sysSignal, err := signal.SystemSignal()
	if err != nil {
		t.Fatalf("SystemSignal failed: %v", err)
	}
	sysPath, err := sysSignal.Path()
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if sysPath != "/System/EngineSpeed" {
		t.Errorf("system signal path = %q, want /System/EngineSpeed", sysPath)
	}
}

func TestCreateSignal_SamePackage(t *testing.T) {
	netPkg, _ := testPackages(t)

	_, err := CreateSignal("EngineSpeed", 16, netPkg, netPkg)
	var paramErr *abstraction.InvalidParameterError
	if !errors.As(err, &paramErr) {
		t.Fatalf("same-package creation: got %v, want InvalidParameterError", err)
	}
}

func TestSignalFromElement(t *testing.T) {
	netPkg, sysPkg := testPackages(t)
	signal, err := CreateSignal("EngineSpeed", 16, netPkg, sysPkg)
	if err != nil {
		t.Fatalf("CreateSignal failed: %v", err)
	}

	roundTripped, err := SignalFromElement(signal.Element())
	if err != nil {
		t.Fatalf("SignalFromElement failed: %v", err)
	}
	if !roundTripped.Element().Equal(signal.Element()) {
		t.Error("round trip should yield the same signal")
	}

	sysElem, err := signal.SystemSignal()
	if err != nil {
		t.Fatalf("SystemSignal failed: %v", err)
	}
	var convErr *abstraction.ConversionError
	if _, err := SignalFromElement(sysElem); !errors.As(err, &convErr) {
		t.Errorf("system signal element: got %v, want ConversionError", err)
	}
}

func TestSignalStubs(t *testing.T) {
	netPkg, sysPkg := testPackages(t)
	signal, err := CreateSignal("EngineSpeed", 16, netPkg, sysPkg)
	if err != nil {
		t.Fatalf("CreateSignal failed: %v", err)
	}
	if err := signal.SetDatatype(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("SetDatatype: got %v, want ErrNotImplemented", err)
	}
	if err := signal.SetTransformation(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("SetTransformation: got %v, want ErrNotImplemented", err)
	}
}

func TestCreateSignalGroup(t *testing.T) {
	netPkg, sysPkg := testPackages(t)

	group, err := CreateSignalGroup("ChassisGroup", netPkg, sysPkg)
	if err != nil {
		t.Fatalf("CreateSignalGroup failed: %v", err)
	}
	name, err := group.Name()
	if err != nil || name != "ChassisGroup" {
		t.Errorf("Name() = %q, %v, want ChassisGroup", name, err)
	}

	if signals := group.Signals(); len(signals) != 0 {
		t.Errorf("new group should have no signals, got %d", len(signals))
	}

	signal, err := CreateSignal("WheelSpeed", 16, netPkg, sysPkg)
	if err != nil {
		t.Fatalf("CreateSignal failed: %v", err)
	}
	if err := group.AddSignal(signal); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("AddSignal: got %v, want ErrNotImplemented", err)
	}
}

func TestCreateSignalGroup_SamePackage(t *testing.T) {
	netPkg, _ := testPackages(t)
	_, err := CreateSignalGroup("ChassisGroup", netPkg, netPkg)
	var paramErr *abstraction.InvalidParameterError
	if !errors.As(err, &paramErr) {
		t.Fatalf("same-package creation: got %v, want InvalidParameterError", err)
	}
}
